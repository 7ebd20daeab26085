package solver

import (
	"testing"

	"github.com/edgsolve/atlcheck/pkg/atlf"
	"github.com/edgsolve/atlcheck/pkg/cgs"
	"github.com/edgsolve/atlcheck/pkg/edg"
)

func threeVertices() []edg.Vertex {
	return []edg.Vertex{
		edg.NewFull(cgs.State(0), atlf.Prop("a")),
		edg.NewFull(cgs.State(1), atlf.Prop("b")),
		edg.NewFull(cgs.State(2), atlf.Prop("c")),
	}
}

func TestBFSStrategyPopsInDiscoveryOrder(t *testing.T) {
	f := newFrontier(BFSStrategy())
	for _, v := range threeVertices() {
		f.push(v)
	}
	var order []cgs.State
	for !f.empty() {
		v, ok := f.pop()
		if !ok {
			t.Fatal("pop reported empty while empty() was false")
		}
		order = append(order, v.State)
	}
	want := []cgs.State{0, 1, 2}
	for i, s := range want {
		if order[i] != s {
			t.Errorf("order[%d] = %d, want %d", i, order[i], s)
		}
	}
}

func TestDFSStrategyPopsMostRecentFirst(t *testing.T) {
	f := newFrontier(DFSStrategy())
	for _, v := range threeVertices() {
		f.push(v)
	}
	var order []cgs.State
	for !f.empty() {
		v, _ := f.pop()
		order = append(order, v.State)
	}
	want := []cgs.State{2, 1, 0}
	for i, s := range want {
		if order[i] != s {
			t.Errorf("order[%d] = %d, want %d", i, order[i], s)
		}
	}
}

func TestFrontierPopOnEmpty(t *testing.T) {
	f := newFrontier(BFSStrategy())
	if _, ok := f.pop(); ok {
		t.Error("pop on an empty frontier should report ok=false")
	}
}
