package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `label_dis,fever,cough,rash
flu,1,1,0
measles,1,0,1
flu,0,1,0
`

func TestParseLabelFirst(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ds.Symptoms, []string{"fever", "cough", "rash"}) {
		t.Fatalf("unexpected symptoms: %v", ds.Symptoms)
	}
	if !reflect.DeepEqual(ds.Labels, []string{"flu", "measles", "flu"}) {
		t.Fatalf("unexpected labels: %v", ds.Labels)
	}
	if ds.Len() != 3 || ds.Features[1][2] != 1 {
		t.Fatalf("unexpected features: %v", ds.Features)
	}
}

func TestParseSkipsIdentifierColumn(t *testing.T) {
	csv := "id,fever,cough,label_dis\n1,1,0,flu\n2,0,1,cold\n"
	ds, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ds.Symptoms, []string{"fever", "cough"}) {
		t.Fatalf("identifier column should be skipped, got %v", ds.Symptoms)
	}
	if ds.Labels[1] != "cold" || ds.Features[1][1] != 1 {
		t.Fatalf("unexpected parse: %+v", ds)
	}
}

func TestParseStripsByteOrderMark(t *testing.T) {
	ds, err := Parse(strings.NewReader("\ufefflabel_dis,s1\nA,1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ds.Symptoms, []string{"s1"}) || !reflect.DeepEqual(ds.Labels, []string{"A"}) {
		t.Fatalf("unexpected parse: %+v", ds)
	}

	ds, err = Parse(strings.NewReader("\ufeffid,s1,label_dis\n1,1,A\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ds.Symptoms, []string{"s1"}) {
		t.Fatalf("identifier column should still be skipped, got %v", ds.Symptoms)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		csv  string
		want error
	}{
		{name: "empty", csv: "", want: ErrNoRows},
		{name: "no label column", csv: "disease,fever\nflu,1\n", want: ErrMissingLabelColumn},
		{name: "label only", csv: "label_dis\nflu\n", want: ErrNoSymptoms},
		{name: "header only", csv: "label_dis,fever\n", want: ErrNoRows},
		{name: "non numeric", csv: "label_dis,fever\nflu,yes\n"},
		{name: "empty label", csv: "label_dis,fever\n ,1\n"},
		{name: "short row", csv: "label_dis,fever,cough\nflu,1\n"},
		{name: "duplicate symptom", csv: "label_dis,fever,fever\nflu,1,0\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.csv))
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", ds.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	ds, err := Fetch(context.Background(), srv.Client(), srv.URL+"/data.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Symptoms) != 3 {
		t.Fatalf("unexpected symptoms: %v", ds.Symptoms)
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
