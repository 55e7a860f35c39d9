// Package export turns analysis and quiz results into downloadable files and
// clipboard text.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-tube/internal/model"
)

// Format is a file export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Base names of exported files, without extension.
const (
	AnalysisBaseName = "analysis_result"
	QuizBaseName     = "quiz_result"
)

// ParseFormat validates a configured format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", name)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// File is an encoded export ready to be written to a sink or streamed.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// MarshalJSON encodes v as JSON indented with two spaces. HTML characters
// are written literally. Raw payloads are re-indented byte for byte.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if raw, ok := v.(json.RawMessage); ok {
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return buf.Bytes(), nil
	}

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// AnalysisText is the clipboard form of an analysis: its summary.
func AnalysisText(a model.AnalysisResult) string {
	return a.Summary
}

// QuizText is the clipboard form of a quiz: its pretty-printed JSON.
func QuizText(q model.QuizSet) (string, error) {
	data, err := MarshalJSON(q.Export())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EncodeAnalysis encodes an analysis result in the given format.
func EncodeAnalysis(a model.AnalysisResult, f Format) (File, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = MarshalJSON(a)
	case FormatYAML:
		data, err = yaml.Marshal(a)
	case FormatXLSX:
		data, err = analysisSheet(a)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return File{}, fmt.Errorf("encode analysis: %w", err)
	}
	return File{Name: AnalysisBaseName + f.Ext(), ContentType: f.ContentType(), Data: data}, nil
}

// EncodeQuiz encodes a quiz in the given format. JSON and YAML keep the raw
// backend payload when one is present.
func EncodeQuiz(q model.QuizSet, f Format) (File, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = MarshalJSON(q.Export())
	case FormatYAML:
		data, err = quizYAML(q)
	case FormatXLSX:
		data, err = quizSheet(q)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return File{}, fmt.Errorf("encode quiz: %w", err)
	}
	return File{Name: QuizBaseName + f.Ext(), ContentType: f.ContentType(), Data: data}, nil
}

func quizYAML(q model.QuizSet) ([]byte, error) {
	if len(q.Raw) == 0 {
		return yaml.Marshal(q.Export())
	}
	// JSON is valid YAML; decoding into a node keeps key order.
	var doc yaml.Node
	if err := yaml.Unmarshal(q.Raw, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)
	return yaml.Marshal(&doc)
}

func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func analysisSheet(a model.AnalysisResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Analysis"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Summary", a.Summary},
		{"Recommended audience", a.Audience},
		{"Topics", strings.Join(a.Topics, ", ")},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return writeWorkbook(f)
}

func quizSheet(q model.QuizSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Quiz"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	width := 0
	for _, question := range q.Questions {
		width = max(width, len(question.Options))
	}
	header := []any{"#", "Question"}
	for i := range width {
		header = append(header, fmt.Sprintf("Option %d", i+1))
	}
	header = append(header, "Correct")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, question := range q.Questions {
		row := []any{i + 1, question.Prompt}
		for j := range width {
			if j < len(question.Options) {
				row = append(row, question.Options[j].Label())
			} else {
				row = append(row, "")
			}
		}
		row = append(row, question.CorrectKey)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return writeWorkbook(f)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
