// Command example demonstrates fieldcodec with an HTTP server accepting
// contact records as JSON or YAML and serving their OpenAPI schema.
//
// Run:
//
//	go run ./_example
//
// Then POST to http://localhost:8080/contacts, or GET
// http://localhost:8080/schema.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	fc "github.com/Gobd/fieldcodec"
)

// Contact is a sample request/response type.
type Contact struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Website *string `json:"website"`
	Tags    Tags    `json:"tags"`
}

// Tags arrive as a JSON array serialized into a string.
type Tags []string

func (c *Contact) Rules() []*fc.FieldRules {
	return []*fc.FieldRules{
		fc.Field(&c.Name, fc.Required),
		fc.Transform(&c.Phone, fc.Phone, fc.Required),
		fc.Transform(&c.Email, fc.Email, fc.Required),
		fc.Transform(&c.Website, fc.Optional(fc.URL)),
		fc.Transform(&c.Tags, fc.EmbeddedJSON[Tags]()),
	}
}

// ErrorResponse is a standard error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	schema, err := fc.NewSchemaRefForValue(Contact{})
	if err != nil {
		log.Fatal(err)
	}

	http.HandleFunc("/schema", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(schema.Value)
	})

	http.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		format := fc.JSON
		if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
			format = fc.YAML
		}

		var contact Contact
		if err := fc.DecodeAndValidate(format, r.Body, &contact); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(contact)
	})

	fmt.Println("Listening on http://localhost:8080")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
