package event

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// notificationSchema pins the exact shape we accept from the trigger source.
// Anything else fails fast with a decoding error instead of propagating
// loosely-typed data into the pipeline.
const notificationSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["Records"],
  "properties": {
    "Records": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["s3"],
        "properties": {
          "s3": {
            "type": "object",
            "required": ["bucket", "object"],
            "properties": {
              "bucket": {
                "type": "object",
                "required": ["name"],
                "properties": {"name": {"type": "string", "minLength": 1}}
              },
              "object": {
                "type": "object",
                "required": ["key"],
                "properties": {"key": {"type": "string", "minLength": 1}}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(notificationSchema)))
	if err != nil {
		panic(err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("notification.json", doc); err != nil {
		panic(err)
	}

	sch, err := c.Compile("notification.json")
	if err != nil {
		panic(err)
	}
	return sch
}

// DecodeNotification validates the raw trigger payload against the expected
// shape and returns one ChangeRecord per entry. A malformed payload is a
// top-level fault for the whole invocation.
func DecodeNotification(raw []byte) ([]ChangeRecord, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("notification is not valid JSON: %w", err)
	}

	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("notification payload invalid: %w", err)
	}

	var ev events.S3Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("decode notification failed: %w", err)
	}

	records := make([]ChangeRecord, 0, len(ev.Records))
	for _, r := range ev.Records {
		records = append(records, ChangeRecord{
			BucketName: r.S3.Bucket.Name,
			ObjectKey:  r.S3.Object.Key,
		})
	}
	return records, nil
}
