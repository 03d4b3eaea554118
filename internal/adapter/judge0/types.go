package judge0

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type submitRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin,omitempty"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
	CPUTimeLimit   string  `json:"cpu_time_limit,omitempty"`
	MemoryLimit    string  `json:"memory_limit,omitempty"`
}

type submitResponse struct {
	Token string `json:"token"`
}

type rawStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// rawResult is the judge's submission document. Text fields are base64 and
// may be null.
type rawResult struct {
	Token         string     `json:"token"`
	Stdout        *string    `json:"stdout"`
	Stderr        *string    `json:"stderr"`
	CompileOutput *string    `json:"compile_output"`
	Message       *string    `json:"message"`
	Status        *rawStatus `json:"status"`
	Time          flexNumber `json:"time"`
	Memory        flexNumber `json:"memory"`
}

type rawLanguage struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// flexNumber accepts a JSON number, a numeric string or null
type flexNumber struct {
	Value float64
	Set   bool
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexNumber{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = flexNumber{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexNumber{Value: v, Set: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexNumber{Value: v, Set: true}
	return nil
}
