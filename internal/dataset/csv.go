package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"leafsense/internal/types"
)

// Header is the fixed CSV column order for dataset files. Readers reject
// files whose header does not match exactly.
var Header = []string{
	types.ColSampleID,
	types.ColTimestamp,
	types.ColCropType,
	types.ColPlantAgeDays,
	types.ColLocationRegion,
	types.ColSoilPH,
	types.ColSoilMoisture,
	types.ColTemperature,
	types.ColHumidity,
	types.ColLeafColor,
	types.ColLesionPresent,
	types.ColLesionCount,
	types.ColSpotSize,
	types.ColNutrientDef,
	types.ColOtherNotes,
	types.ColLabelDisease,
	types.ColSeverity,
}

// WriteFile writes samples as CSV to path, creating parent directories as
// needed. The file always starts with Header.
func WriteFile(path string, samples []types.Sample) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dataset directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range samples {
		if err := w.Write(Record(samples[i])); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing dataset file: %w", err)
	}
	return f.Close()
}

// ReadFile reads a dataset CSV produced by WriteFile (or by hand, as long as
// the header matches).
func ReadFile(path string) ([]types.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var samples []types.Sample
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// Record serializes one sample into a CSV row matching Header order.
func Record(s types.Sample) []string {
	return []string{
		s.SampleID,
		s.Timestamp.Format(time.RFC3339),
		s.CropType,
		strconv.Itoa(s.PlantAgeDays),
		s.LocationRegion,
		formatFloat(s.SoilPH),
		formatFloat(s.SoilMoisture),
		formatFloat(s.Temperature),
		formatFloat(s.Humidity),
		s.LeafColor,
		strconv.FormatBool(s.LesionPresent),
		strconv.Itoa(s.LesionCount),
		formatFloat(s.SpotSize),
		s.NutrientDef,
		s.OtherNotes,
		s.LabelDisease,
		s.Severity,
	}
}

func checkHeader(header []string) error {
	if len(header) != len(Header) {
		return fmt.Errorf("expected %d columns, found %d", len(Header), len(header))
	}
	for i, name := range Header {
		if header[i] != name {
			return fmt.Errorf("column %d: expected %q, found %q", i+1, name, header[i])
		}
	}
	return nil
}

func parseRecord(record []string) (types.Sample, error) {
	var s types.Sample
	if len(record) != len(Header) {
		return s, fmt.Errorf("expected %d fields, found %d", len(Header), len(record))
	}

	s.SampleID = record[0]
	ts, err := time.Parse(time.RFC3339, record[1])
	if err != nil {
		return s, fmt.Errorf("timestamp: %w", err)
	}
	s.Timestamp = ts
	s.CropType = record[2]
	if s.PlantAgeDays, err = strconv.Atoi(record[3]); err != nil {
		return s, fmt.Errorf("plant_age_days: %w", err)
	}
	s.LocationRegion = record[4]
	if s.SoilPH, err = strconv.ParseFloat(record[5], 64); err != nil {
		return s, fmt.Errorf("soil_ph: %w", err)
	}
	if s.SoilMoisture, err = strconv.ParseFloat(record[6], 64); err != nil {
		return s, fmt.Errorf("soil_moisture_pct: %w", err)
	}
	if s.Temperature, err = strconv.ParseFloat(record[7], 64); err != nil {
		return s, fmt.Errorf("ambient_temperature_c: %w", err)
	}
	if s.Humidity, err = strconv.ParseFloat(record[8], 64); err != nil {
		return s, fmt.Errorf("ambient_humidity_pct: %w", err)
	}
	s.LeafColor = record[9]
	if s.LesionPresent, err = strconv.ParseBool(record[10]); err != nil {
		return s, fmt.Errorf("lesion_present: %w", err)
	}
	if s.LesionCount, err = strconv.Atoi(record[11]); err != nil {
		return s, fmt.Errorf("lesion_count: %w", err)
	}
	if s.SpotSize, err = strconv.ParseFloat(record[12], 64); err != nil {
		return s, fmt.Errorf("spot_size_mm: %w", err)
	}
	s.NutrientDef = record[13]
	s.OtherNotes = record[14]
	s.LabelDisease = record[15]
	s.Severity = record[16]
	return s, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
