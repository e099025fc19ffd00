package peer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/they4kman/duelsweep/protocol"
)

func TestRender(t *testing.T) {
	view := &View{
		Grid: protocol.Grid{
			{{IsOpen: false}, {IsOpen: true}},
			{{IsOpen: true, IsMine: true}, {IsOpen: false, IsMine: true}},
		},
		Message: "hello",
	}

	var out bytes.Buffer
	if err := Render(&out, view); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"+----+----+",
		"| ## |    | ",
		"+----+----+",
		"| 💣 | ## | ",
		"+----+----+",
		"hello",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("rendered\n%s\nwant\n%s", out.String(), want)
	}
}

func TestRenderWithoutGrid(t *testing.T) {
	var out bytes.Buffer
	if err := Render(&out, &View{Message: "waiting"}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "waiting\n" {
		t.Errorf("rendered %q", out.String())
	}
}

func TestViewCellAt(t *testing.T) {
	view := &View{Grid: closedGrid(2)}

	for _, coord := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if _, ok := view.CellAt(coord[0], coord[1]); ok {
			t.Errorf("CellAt(%d, %d) should be out of range", coord[0], coord[1])
		}
	}
	if _, ok := view.CellAt(1, 1); !ok {
		t.Error("CellAt(1, 1) should be in range")
	}
}
