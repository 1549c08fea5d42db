package policy

import (
	"testing"

	"github.com/darmiel/dockgate/internal/core"
)

func TestDecide_Matrix(t *testing.T) {
	readOnly := &core.Principal{ID: "operator", Level: core.PermReadOnly, Authenticated: true}
	fullControl := &core.Principal{ID: "operator", Level: core.PermFullControl, Authenticated: true}

	for _, op := range Operations() {
		class, ok := Classify(op)
		if !ok {
			t.Fatalf("Classify(%s) not in table", op)
		}

		switch class {
		case ClassReadOnly:
			// read-only operations are allowed regardless of level
			if !Decide(op, readOnly) {
				t.Errorf("Decide(%s, read-only) = false, want true", op)
			}
			if !Decide(op, fullControl) {
				t.Errorf("Decide(%s, full-control) = false, want true", op)
			}
		case ClassFullControl:
			if Decide(op, readOnly) {
				t.Errorf("Decide(%s, read-only) = true, want false", op)
			}
			if !Decide(op, fullControl) {
				t.Errorf("Decide(%s, full-control) = false, want true", op)
			}
		}
	}
}

func TestDecide_UnknownOperationFailsClosed(t *testing.T) {
	fullControl := &core.Principal{ID: "operator", Level: core.PermFullControl, Authenticated: true}

	for _, op := range []core.OperationKind{"", "delete_everything", "list_containers2"} {
		if Decide(op, fullControl) {
			t.Errorf("Decide(%q) = true, want false", op)
		}
	}
}

func TestDecide_NilPrincipal(t *testing.T) {
	if Decide(core.OpListContainers, nil) {
		t.Error("Decide with nil principal = true, want false")
	}
}

func TestClassify_Coverage(t *testing.T) {
	readOnlyOps := []core.OperationKind{
		core.OpListContainers, core.OpContainerStatus, core.OpContainerLogs,
		core.OpContainerStats, core.OpContainerHealth, core.OpListStacks, core.OpComposeStatus,
	}
	fullControlOps := []core.OperationKind{
		core.OpStartContainer, core.OpStopContainer, core.OpRestartContainer,
		core.OpComposeUp, core.OpComposeDown, core.OpComposeRestart,
	}

	for _, op := range readOnlyOps {
		if class, ok := Classify(op); !ok || class != ClassReadOnly {
			t.Errorf("Classify(%s) = %v, %v; want read_only", op, class, ok)
		}
	}
	for _, op := range fullControlOps {
		if class, ok := Classify(op); !ok || class != ClassFullControl {
			t.Errorf("Classify(%s) = %v, %v; want full_control", op, class, ok)
		}
	}
}
