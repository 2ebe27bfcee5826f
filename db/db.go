package db

import (
	"fmt"

	"github.com/jsphweid/beatframe/constants"
	"github.com/jsphweid/beatframe/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// PutSessionReport stores one end-of-session diagnostics summary. Only
// the summary goes up; estimation state is never read back.
func PutSessionReport(r model.SessionReport) {
	endpoint := constants.GetDynamoEndpoint()
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}

	client := dynamodb.New(session)

	item := map[string]*dynamodb.AttributeValue{
		"PK":             {S: aws.String(r.SessionId)},
		"BeatsPerMinute": {N: aws.String(fmt.Sprintf("%v", r.BeatsPerMinute))},
		"BeatsPerBar":    {N: aws.String(fmt.Sprintf("%v", r.BeatsPerBar))},
		"FrameRate":      {N: aws.String(fmt.Sprintf("%v", r.FrameRate))},
		"NumBeats":       {N: aws.String(fmt.Sprintf("%v", r.NumBeats))},
		"WidthMin":       {N: aws.String(fmt.Sprintf("%v", r.WidthMin))},
		"WidthMax":       {N: aws.String(fmt.Sprintf("%v", r.WidthMax))},
		"SkewKind":       {S: aws.String(r.SkewKind)},
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(constants.SessionsTable),
		Item:      item,
	}
	_, err = client.PutItem(input)
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}
}
