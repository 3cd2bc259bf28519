package patch_test

import (
	"fmt"

	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/patch"
)

func ExampleApply() {
	doc := "@startuml\nclass A\nclass B\n@enduml\n"
	res := patch.Apply(doc, []layout.Constraint{
		{From: "A", To: "B", Axis: layout.Horizontal, Direction: layout.Before},
	})
	fmt.Print(res.Text)
	// Output:
	// @startuml
	// class A
	// class B
	// ' umlsync:layout:begin
	// A -[hidden]right-> B
	// ' umlsync:layout:end
	// @enduml
}
