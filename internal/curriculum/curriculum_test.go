package curriculum

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	csv := "substandard_id,grade,substandard_description,assessment_boundary\n" +
		"3.OA.A.1+1,3,Interpret products of whole numbers,Products within 100\n" +
		"3.OA.A.2+1,3,Interpret quotients,\n" +
		"4.NBT.A.1+1,4,Place value to one million,Whole numbers only\n"

	subs, err := LoadCSV(writeFile(t, "curriculum.csv", csv), 3)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("got %d substandards, want 2 (grade filter)", len(subs))
	}
	if subs[0].ID != "3.OA.A.1+1" || subs[0].AssessmentBoundary != "Products within 100" {
		t.Errorf("unexpected first record: %+v", subs[0])
	}
	if got := subs[1].Boundary(); got != "No specific boundaries provided" {
		t.Errorf("empty boundary placeholder = %q", got)
	}
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	csv := "id,grade\nx,3\n"
	if _, err := LoadCSV(writeFile(t, "bad.csv", csv), 3); err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestLoadCSV_BadGrade(t *testing.T) {
	csv := "substandard_id,grade,substandard_description\nx,three,desc\n"
	if _, err := LoadCSV(writeFile(t, "bad.csv", csv), 3); err == nil {
		t.Error("expected error for non-numeric grade")
	}
}

func TestLoadComposed(t *testing.T) {
	doc := `{"substandards": [
      {"substandard_id": "3.NF.A.1+1", "grade": 3,
       "substandard_description": "Understand unit fractions",
       "sequences": [
         {"skill_name": "Fractions", "sequence_number": 4, "problem_type": "Identify unit fractions",
          "format": {"format_number": "F-12", "title": "Fraction naming"}},
         {"skill_name": "Fractions", "sequence_number": 5, "problem_type": "Shade regions", "format": null}
       ]}
    ]}`

	subs, err := LoadComposed(writeFile(t, "composed.json", doc))
	if err != nil {
		t.Fatalf("LoadComposed: %v", err)
	}
	if len(subs) != 1 || len(subs[0].Sequences) != 2 {
		t.Fatalf("unexpected shape: %+v", subs)
	}
	if !subs[0].Sequences[0].HasFormat() {
		t.Error("first sequence should have a format")
	}
	if subs[0].Sequences[1].HasFormat() {
		t.Error("null format should count as absent")
	}
}

func TestLoadMisconceptions(t *testing.T) {
	csv := `Substandard ID,Common Misconception 1,Common Misconception 2,Common Misconception 3,Common Misconception 4
3.OA.A.1+1,Adds instead of multiplies,Confuses factors with addends,N/A,
3.OA.A.2+1,,,,
`
	m, err := LoadMisconceptions(writeFile(t, "misc.csv", csv))
	if err != nil {
		t.Fatalf("LoadMisconceptions: %v", err)
	}
	if got := m["3.OA.A.1+1"]; len(got) != 2 {
		t.Errorf("got %v, want 2 misconceptions", got)
	}
	if _, ok := m["3.OA.A.2+1"]; ok {
		t.Error("substandard with no misconceptions should be absent")
	}
}
