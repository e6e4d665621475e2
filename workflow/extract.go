// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// Customer is the normalized record extracted from a completed
// customer-details workflow run.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Validate ensures the Customer record is fully populated.
func (c *Customer) Validate() error {
	if c.FirstName == "" {
		return fmt.Errorf("customer first name cannot be empty")
	}
	if c.LastName == "" {
		return fmt.Errorf("customer last name cannot be empty")
	}
	if c.Email == "" {
		return fmt.Errorf("customer email cannot be empty")
	}
	return nil
}

// String formats the customer for a human-readable artifact.
func (c *Customer) String() string {
	return fmt.Sprintf("Customer Details:\nFirst Name: %s\nLast Name: %s\nEmail: %s",
		c.FirstName, c.LastName, c.Email)
}

// ExtractCustomer maps a terminal run's node graph to a Customer record.
//
// Two node shapes carry the result: an "end" node whose output wraps the
// record under an "output" key, and an "http_request" node whose output
// nests it under "data.customer". A run whose graph carries neither, or
// whose record is missing fields, yields *ExtractionError — never a
// partially populated Customer.
func ExtractCustomer(state *RunState) (*Customer, error) {
	if state == nil {
		return nil, &ExtractionError{Reason: "run state is nil"}
	}
	if len(state.Nodes) == 0 {
		return nil, &ExtractionError{Reason: "run state carries no nodes"}
	}

	for _, node := range state.Nodes {
		switch node.NodeType {
		case "end":
			var out struct {
				Output *Customer `json:"output"`
			}
			if err := json.Unmarshal([]byte(node.Output), &out); err != nil {
				return nil, &ExtractionError{Reason: fmt.Sprintf("malformed end node output: %v", err)}
			}
			if out.Output == nil {
				continue
			}
			if err := out.Output.Validate(); err != nil {
				return nil, &ExtractionError{Reason: err.Error()}
			}
			return out.Output, nil

		case "http_request":
			var out struct {
				Data struct {
					Customer *Customer `json:"customer"`
				} `json:"data"`
			}
			if err := json.Unmarshal([]byte(node.Output), &out); err != nil {
				return nil, &ExtractionError{Reason: fmt.Sprintf("malformed http_request node output: %v", err)}
			}
			if out.Data.Customer == nil {
				continue
			}
			if err := out.Data.Customer.Validate(); err != nil {
				return nil, &ExtractionError{Reason: err.Error()}
			}
			return out.Data.Customer, nil
		}
	}

	return nil, &ExtractionError{Reason: "no customer data found in run nodes"}
}
