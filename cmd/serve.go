package cmd

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/beatframe/model"
	"github.com/jsphweid/beatframe/skew"
	"github.com/jsphweid/beatframe/util"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var loadedDump model.SessionDump

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves a session dump over HTTP for inspection tooling",
	Long:  `Serves a session dump over HTTP for inspection tooling`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		LoadDump(args[0])
		serve()
	},
}

// LoadDump loads the session dump the handlers serve from.
func LoadDump(path string) {
	loadedDump = util.ReadBinaryOrPanic[model.SessionDump](path)
}

func HandleSession(w http.ResponseWriter, r *http.Request) {
	res := model.SessionResponse{
		SessionId:      loadedDump.SessionId,
		BeatsPerMinute: loadedDump.BeatsPerMinute,
		BeatsPerBar:    loadedDump.BeatsPerBar,
		FrameRate:      loadedDump.FrameRate,
		NumBeats:       len(loadedDump.Beats),
		WidthMin:       loadedDump.Width.Min,
		WidthMax:       loadedDump.Width.Max,
	}
	json.NewEncoder(w).Encode(res)
}

func HandleBeats(w http.ResponseWriter, r *http.Request) {
	res := make([]model.BeatResponse, 0, len(loadedDump.Beats))
	for i, b := range loadedDump.Beats {
		res = append(res, beatResponse(int64(i+1), b))
	}
	json.NewEncoder(w).Encode(res)
}

func HandleBeat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	n, err := strconv.ParseInt(vars["beatNumber"], 10, 64)
	if err != nil || n < 1 {
		writeError(w, "beatNumber must be a positive integer", 400)
		return
	}
	if n > int64(len(loadedDump.Beats)) {
		writeError(w, "beat was never estimated in this session", 404)
		return
	}
	json.NewEncoder(w).Encode(beatResponse(n, loadedDump.Beats[n-1]))
}

func HandleSkew(w http.ResponseWriter, r *http.Request) {
	rep := skew.Classify(loadedDump.Observations)
	res := model.SkewResponse{
		Kind:         rep.Kind.String(),
		DriftPerBeat: rep.DriftPerBeat,
		MeanOffset:   rep.MeanOffset,
		MissingBeats: rep.MissingBeats,
	}
	json.NewEncoder(w).Encode(res)
}

func beatResponse(n int64, b model.BeatRecord) model.BeatResponse {
	return model.BeatResponse{
		BeatNumber: n,
		Frame:      b.Window.Midpoint(),
		WindowMin:  b.Window.Min,
		WindowMax:  b.Window.Max,
		Inaccuracy: b.Inaccuracy,
	}
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/session", HandleSession).Methods("GET")
	router.HandleFunc("/beats", HandleBeats).Methods("GET")
	router.HandleFunc("/beats/{beatNumber}", HandleBeat).Methods("GET")
	router.HandleFunc("/skew", HandleSkew).Methods("GET")
	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(":8080", handler))
}
