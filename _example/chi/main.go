// Command chi demonstrates fieldcodec with a chi router.
//
// Run:
//
//	cd _example/chi && go run .
//
// Then POST an order to http://localhost:8080/orders.json or
// http://localhost:8080/orders.yaml.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	fc "github.com/Gobd/fieldcodec"
	"github.com/go-chi/chi/v5"
)

type Order struct {
	Customer  string `json:"customer"`
	Email     string `json:"email"`
	ItemCount int    `json:"item_count"`
	Card      string `json:"card"`
}

func (o *Order) Rules() []*fc.FieldRules {
	return []*fc.FieldRules{
		fc.Field(&o.Customer, fc.Required),
		fc.Transform(&o.Email, fc.Email, fc.Required),
		fc.Transform(&o.ItemCount, fc.FromString(strconv.Atoi), fc.Required),
		fc.Transform(&o.Card, fc.CreditCard),
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	schema, err := fc.NewSchemaRefForValue(Order{})
	if err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()

	r.Get("/schema", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(schema.Value)
	})

	r.Post("/orders.{format}", func(w http.ResponseWriter, r *http.Request) {
		format := fc.JSON
		if chi.URLParam(r, "format") == "yaml" {
			format = fc.YAML
		}

		var order Order
		if err := fc.DecodeAndValidate(format, r.Body, &order); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(order)
	})

	fmt.Println("Listening on http://localhost:8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
