// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package validation

import (
	"strings"
	"testing"
)

type limitRequest struct {
	Limit int `validate:"omitempty,gte=1,lte=100"`
}

type seedRequest struct {
	MediaType string `validate:"required,oneof=movie tv"`
	ID        int    `validate:"required,gt=0"`
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&limitRequest{Limit: 20}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if err := ValidateStruct(&limitRequest{}); err != nil {
		t.Fatalf("omitempty should allow zero value, got %v", err)
	}
}

func TestValidateStructSingleError(t *testing.T) {
	verr := ValidateStruct(&limitRequest{Limit: 500})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	errs := verr.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Tag() != "lte" {
		t.Errorf("expected lte tag, got %q", errs[0].Tag())
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR code, got %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("expected Limit field in details, got %v", apiErr.Details["field"])
	}
	if !strings.Contains(apiErr.Message, "less than or equal to 100") {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	verr := ValidateStruct(&seedRequest{MediaType: "book", ID: -1})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("expected fields list in details, got %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 field entries, got %d", len(fields))
	}
	if !strings.Contains(apiErr.Message, "MediaType") || !strings.Contains(apiErr.Message, "ID") {
		t.Errorf("combined message missing fields: %q", apiErr.Message)
	}
}

func TestMediaTypeOneOf(t *testing.T) {
	tests := []struct {
		mediaType string
		valid     bool
	}{
		{"movie", true},
		{"tv", true},
		{"Movie", false},
		{"show", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidateStruct(&seedRequest{MediaType: tt.mediaType, ID: 1})
		if tt.valid && err != nil {
			t.Errorf("media type %q: expected valid, got %v", tt.mediaType, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("media type %q: expected validation failure", tt.mediaType)
		}
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Fatal("expected the same validator instance")
	}
}
