package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// LabelColumn holds the disease name in every row.
const LabelColumn = "label_dis"

// DefaultURL is the public symptom/disease table the service trains on.
const DefaultURL = "https://raw.githubusercontent.com/rahul15197/Disease-Detection-based-on-Symptoms/master/Dataset/dis_sym_dataset_comb.csv"

var (
	ErrMissingLabelColumn = errors.New("dataset: missing " + LabelColumn + " column")
	ErrNoSymptoms         = errors.New("dataset: no symptom columns")
	ErrNoRows             = errors.New("dataset: no rows")
)

// Dataset is a parsed training table. Features[i][j] is the indicator of
// Symptoms[j] for the example labelled Labels[i].
type Dataset struct {
	Symptoms []string
	Labels   []string
	Features [][]float64
}

// Len returns the number of labelled examples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Fetch downloads and parses the CSV at url.
func Fetch(ctx context.Context, client *http.Client, url string) (*Dataset, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}

	return Parse(resp.Body)
}

// Load parses the CSV file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a symptom table. The label column is located by name. Every
// other column is a symptom indicator, except a leading identifier column
// when the label is not the first column.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	// pandas and Excel exports may lead with a UTF-8 byte order mark.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	labelIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == LabelColumn {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return nil, ErrMissingLabelColumn
	}

	symptomCols := []int{}
	symptoms := []string{}
	seen := map[string]bool{}
	for i, name := range header {
		if i == labelIdx || (i == 0 && labelIdx != 0) {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("dataset: empty symptom name in column %d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("dataset: duplicate symptom column %q", name)
		}
		seen[name] = true
		symptomCols = append(symptomCols, i)
		symptoms = append(symptoms, name)
	}
	if len(symptoms) == 0 {
		return nil, ErrNoSymptoms
	}

	ds := &Dataset{Symptoms: symptoms}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		label := strings.TrimSpace(record[labelIdx])
		if label == "" {
			return nil, fmt.Errorf("dataset: row %d has an empty %s", line, LabelColumn)
		}

		row := make([]float64, len(symptomCols))
		for j, col := range symptomCols {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("dataset: row %d column %q is not numeric: %q", line, symptoms[j], record[col])
			}
			row[j] = v
		}

		ds.Labels = append(ds.Labels, label)
		ds.Features = append(ds.Features, row)
	}

	if ds.Len() == 0 {
		return nil, ErrNoRows
	}

	return ds, nil
}
