// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package multilingual

import (
	"encoding/json"
	"net/url"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Field
	}{
		{"object form", `{"ar":"مرحبا","fr":"Bonjour","en":"Hello"}`, Field{AR: "مرحبا", FR: "Bonjour", EN: "Hello"}},
		{"object missing languages", `{"en":"Hello"}`, Field{EN: "Hello"}},
		{"object with non-string value", `{"fr":12,"en":"Hi"}`, Field{EN: "Hi"}},
		{"array form unordered", `[{"lang":"en","value":"Hello"},{"lang":"ar","value":"مرحبا"},{"lang":"fr","value":"Bonjour"}]`, Field{AR: "مرحبا", FR: "Bonjour", EN: "Hello"}},
		{"array missing entries", `[{"lang":"fr","value":"Bonjour"}]`, Field{FR: "Bonjour"}},
		{"array first entry wins", `[{"lang":"fr","value":"Un"},{"lang":"fr","value":"Deux"}]`, Field{FR: "Un"}},
		{"array ignores unknown langs", `[{"lang":"de","value":"Hallo"},{"lang":"EN","value":"Hello"}]`, Field{EN: "Hello"}},
		{"array with junk entries", `["x", 3, null, {"value":"orphan"}]`, Field{}},
		{"bare string", `"Bonjour"`, Field{FR: "Bonjour"}},
		{"null", `null`, Field{}},
		{"empty input", ``, Field{}},
		{"number", `42`, Field{}},
		{"boolean", `true`, Field{}},
		{"malformed", `{"fr":`, Field{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]byte(tt.raw))
			if got != tt.want {
				t.Errorf("Normalize(%s) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_ArrayFormAlwaysHasThreeUniqueLanguages(t *testing.T) {
	inputs := []string{
		`{"ar":"a","fr":"b","en":"c"}`,
		`[{"lang":"en","value":"x"}]`,
		`[]`,
		`{}`,
		`"plain"`,
		`null`,
		`[{"lang":"fr","value":"1"},{"lang":"fr","value":"2"}]`,
		`not json`,
	}

	for _, in := range inputs {
		arr := Normalize([]byte(in)).ArrayForm()
		if len(arr) != 3 {
			t.Fatalf("ArrayForm(%s): got %d entries, want 3", in, len(arr))
		}
		seen := map[Lang]bool{}
		for _, tr := range arr {
			if seen[tr.Lang] {
				t.Errorf("ArrayForm(%s): duplicate lang %q", in, tr.Lang)
			}
			seen[tr.Lang] = true
		}
		for _, l := range Languages {
			if !seen[l] {
				t.Errorf("ArrayForm(%s): missing lang %q", in, l)
			}
		}
	}
}

func TestArrayForm_FixedOrder(t *testing.T) {
	arr := Field{AR: "a", FR: "f", EN: "e"}.ArrayForm()
	want := []Translation{{AR, "a"}, {FR, "f"}, {EN, "e"}}
	for i := range want {
		if arr[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, arr[i], want[i])
		}
	}

	b, err := json.Marshal(arr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	wantJSON := `[{"lang":"ar","value":"a"},{"lang":"fr","value":"f"},{"lang":"en","value":"e"}]`
	if string(b) != wantJSON {
		t.Errorf("JSON: got %s, want %s", b, wantJSON)
	}
}

func TestObjectForm(t *testing.T) {
	f := Field{FR: "Bonjour"}
	obj := f.ObjectForm()
	if len(obj) != 3 {
		t.Fatalf("ObjectForm: got %d keys, want 3", len(obj))
	}
	for _, k := range []string{"ar", "fr", "en"} {
		if _, ok := obj[k]; !ok {
			t.Errorf("ObjectForm: missing key %q", k)
		}
	}

	b, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"ar":"","en":"","fr":"Bonjour"}` {
		t.Errorf("MarshalJSON: got %s", b)
	}
}

func TestEdit(t *testing.T) {
	orig := Field{AR: "a", FR: "f", EN: "e"}

	got := orig.Edit(FR, "nouveau")
	if got != (Field{AR: "a", FR: "nouveau", EN: "e"}) {
		t.Errorf("Edit(fr): got %+v", got)
	}
	if orig.FR != "f" {
		t.Errorf("Edit mutated the receiver: %+v", orig)
	}

	if same := orig.Edit(Lang("de"), "x"); same != orig {
		t.Errorf("Edit(unknown lang): got %+v, want unchanged", same)
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name      string
		field     Field
		preferred Lang
		want      string
	}{
		{"preferred present", Field{EN: "Hello", FR: "Bonjour"}, EN, "Hello"},
		{"falls back to french", Field{FR: "Bonjour"}, EN, "Bonjour"},
		{"falls back to first non-empty", Field{AR: "مرحبا"}, EN, "مرحبا"},
		{"english when only english", Field{EN: "Hello"}, AR, "Hello"},
		{"all empty", Field{}, EN, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.Display(tt.preferred); got != tt.want {
				t.Errorf("Display(%q) = %q, want %q", tt.preferred, got, tt.want)
			}
		})
	}

	if got := (Field{}).DisplayOr(EN, "Untitled"); got != "Untitled" {
		t.Errorf("DisplayOr: got %q, want Untitled", got)
	}
}

func TestUnmarshalJSON_InsideStruct(t *testing.T) {
	var rec struct {
		Titre   Field `json:"titre"`
		Contenu Field `json:"contenu"`
		Slogan  Field `json:"slogan"`
	}
	raw := `{"titre":[{"lang":"en","value":"About"}],"contenu":{"fr":"Texte"},"slogan":null}`
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rec.Titre.EN != "About" || rec.Contenu.FR != "Texte" || !rec.Slogan.IsEmpty() {
		t.Errorf("decoded %+v", rec)
	}
}

func TestFromForm(t *testing.T) {
	v := url.Values{}
	v.Set("titre.ar", "عنوان")
	v.Set("titre.fr", "Titre")
	v.Set("other.en", "ignored")

	got := FromForm(v, "titre")
	if got != (Field{AR: "عنوان", FR: "Titre"}) {
		t.Errorf("FromForm: got %+v", got)
	}
}
