package diagram

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractForms(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Entity
	}{
		{"quoted label first", `class "Customer Account" as Account`, Entity{"Account", "Customer Account", KindClass}},
		{"quoted label last", `component Api as "Public API"`, Entity{"Api", "Public API", KindComponent}},
		{"unquoted alias", `participant Server as S`, Entity{"S", "Server", KindParticipant}},
		{"bare", `actor User`, Entity{"User", "User", KindActor}},
		{"bare with stereotype", `class Order <<entity>> #lightblue`, Entity{"Order", "Order", KindClass}},
		{"bare with body", `class Order {`, Entity{"Order", "Order", KindClass}},
		{"generic", `interface Repo<T>`, Entity{"Repo", "Repo", KindInterface}},
		{"keyword case", `CLASS Foo`, Entity{"Foo", "Foo", KindClass}},
		{"indented", "\t  usecase Login", Entity{"Login", "Login", KindUsecase}},
		{"alias keyword case", `object "Cart" AS c1`, Entity{"c1", "Cart", KindObject}},
		{"unicode id", `actor 用户`, Entity{"用户", "用户", KindActor}},
		{"quoted label with arrow", `class "a -> b" as AB`, Entity{"AB", "a -> b", KindClass}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.line)
			if len(got.Diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %v", got.Diagnostics)
			}
			if len(got.Entities) != 1 {
				t.Fatalf("got %d entities, want 1", len(got.Entities))
			}
			if got.Entities[0] != tt.want {
				t.Errorf("got %+v, want %+v", got.Entities[0], tt.want)
			}
		})
	}
}

func TestExtractIgnoresNonDeclarations(t *testing.T) {
	lines := []string{
		"@startuml",
		"A -> B : call",
		"class A -- class B",
		"actor A -[hidden]right-> B",
		"class A ..> B",
		"class A <.. B",
		"classroom Foo",
		"' class Commented",
		"note right of A : class Foo",
		"skinparam classBackgroundColor white",
		"",
		"@enduml",
	}
	got := Extract(strings.Join(lines, "\n"))
	if len(got.Entities) != 0 {
		t.Errorf("entities = %+v, want none", got.Entities)
	}
	if len(got.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", got.Diagnostics)
	}
}

func TestExtractMalformed(t *testing.T) {
	text := "class A\nclass \"Unterminated\nclass B\nactor   \nclass C"
	got := Extract(text)

	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(IDs(got.Entities), want) {
		t.Errorf("ids = %v, want %v", IDs(got.Entities), want)
	}
	if len(got.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(got.Diagnostics), got.Diagnostics)
	}
	for i, line := range []int{2, 4} {
		d := got.Diagnostics[i]
		if d.Line != line || d.Severity != SevWarning {
			t.Errorf("diagnostic %d = %+v, want warning on line %d", i, d, line)
		}
	}
	if got.Diagnostics[0].Text != `class "Unterminated` {
		t.Errorf("diagnostic text = %q", got.Diagnostics[0].Text)
	}
}

func TestExtractDuplicates(t *testing.T) {
	text := "class A\nactor \"Other\" as A\nclass B"
	got := Extract(text)

	want := []Entity{
		{ID: "A", Label: "A", Kind: KindClass},
		{ID: "B", Label: "B", Kind: KindClass},
	}
	if !reflect.DeepEqual(got.Entities, want) {
		t.Errorf("entities = %+v, want %+v", got.Entities, want)
	}
	if len(got.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want 1", got.Diagnostics)
	}
	if d := got.Diagnostics[0]; d.Severity != SevInfo || d.Line != 2 {
		t.Errorf("diagnostic = %+v, want info on line 2", d)
	}
}

func TestExtractOrderAndCRLF(t *testing.T) {
	text := "@startuml\r\nclass Zed\r\nclass Alpha\r\nclass Mid\r\n@enduml\r\n"
	got := Entities(text)
	if want := []string{"Zed", "Alpha", "Mid"}; !reflect.DeepEqual(IDs(got), want) {
		t.Errorf("ids = %v, want %v", IDs(got), want)
	}
}

func TestExtractEmpty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "@startuml\n@enduml"} {
		got := Extract(text)
		if len(got.Entities) != 0 || len(got.Diagnostics) != 0 {
			t.Errorf("Extract(%q) = %+v, want empty", text, got)
		}
	}
}

func TestExtractDefaultDocument(t *testing.T) {
	got := Extract(DefaultDocument)
	want := []Entity{
		{ID: "用户", Label: "用户", Kind: KindActor},
		{ID: "AI", Label: "Diagram Service", Kind: KindParticipant},
		{ID: "Server", Label: "PlantUML Server", Kind: KindParticipant},
	}
	if !reflect.DeepEqual(got.Entities, want) {
		t.Errorf("entities = %+v, want %+v", got.Entities, want)
	}
	if len(got.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v", got.Diagnostics)
	}
}

func TestParseKind(t *testing.T) {
	if got := ParseKind(" Participant "); got != KindParticipant {
		t.Errorf("ParseKind = %q", got)
	}
	if got := ParseKind("package"); got != KindUnknown {
		t.Errorf("ParseKind(package) = %q, want unknown", got)
	}
}

func TestDisplayLabel(t *testing.T) {
	e := Entity{ID: "S", Label: "Server", Kind: KindParticipant}
	if got := e.DisplayLabel(); got != "participant: Server" {
		t.Errorf("DisplayLabel = %q", got)
	}
}

func TestSeverityText(t *testing.T) {
	for _, s := range []Severity{SevInfo, SevWarning} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Severity
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Errorf("round trip of %v = %v, %v", s, back, err)
		}
	}
	var s Severity
	if err := s.UnmarshalText([]byte("fatal")); err == nil {
		t.Error("expected error for unknown severity")
	}
}
