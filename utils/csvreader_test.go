package utils

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	csvData := `code,name,city
1042,Plaza Satelite,Naucalpan
3310,Centro Historico,CDMX`

	reader := strings.NewReader(csvData)

	got, err := ParseCSV(reader)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	want := [][]string{
		{"code", "name", "city"},
		{"1042", "Plaza Satelite", "Naucalpan"},
		{"3310", "Centro Historico", "CDMX"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV returned %+v, want %+v", got, want)
	}
}
