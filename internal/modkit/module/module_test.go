package module

import (
	"strings"
	"testing"

	phttp "wikipub/internal/platform/net/http"
	"wikipub/internal/platform/testkit"
)

type Pinger interface{ Ping() string }

type pinger string

func (p pinger) Ping() string { return string(p) }

type stubModule struct {
	name    string
	ports   any
	mounted *[]string
}

func (s stubModule) Name() string { return s.name }
func (s stubModule) Ports() any   { return s.ports }
func (s stubModule) MountRoutes(phttp.Router) {
	if s.mounted != nil {
		*s.mounted = append(*s.mounted, s.name)
	}
}

func TestPortsOf(t *testing.T) {
	type bundle struct {
		Count  int
		Client Pinger
	}
	type hidden struct{ client Pinger }

	cases := []struct {
		name  string
		ports any
		want  string
		ok    bool
	}{
		{"nil", nil, "", false},
		{"direct", pinger("direct"), "direct", true},
		{"struct field", bundle{Count: 1, Client: pinger("field")}, "field", true},
		{"pointer bundle", &bundle{Client: pinger("ptr")}, "ptr", true},
		{"nil pointer bundle", (*bundle)(nil), "", false},
		{"unexported field", hidden{client: pinger("x")}, "", false},
		{"scalar", 42, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := PortsOf[Pinger](stubModule{name: "wiki", ports: c.ports})
			if ok != c.ok {
				t.Fatalf("ok = %v want %v", ok, c.ok)
			}
			if ok && got.Ping() != c.want {
				t.Fatalf("Ping() = %q want %q", got.Ping(), c.want)
			}
		})
	}
}

func TestMustPortsOf_NamesModuleAndType(t *testing.T) {
	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "wiki-api") || !strings.Contains(msg, "Pinger") {
			t.Fatalf("panic message = %q", msg)
		}
	}()
	MustPortsOf[Pinger](stubModule{name: "wiki-api"})
	t.Fatal("expected panic")
}

func TestSet_MountsInOrderAndLooksUp(t *testing.T) {
	var mounted []string
	s := NewSet(
		stubModule{name: "meta", mounted: &mounted},
		stubModule{name: "wiki", ports: struct{ Client Pinger }{pinger("siteinfo")}, mounted: &mounted},
		stubModule{name: "wiki-api", mounted: &mounted},
	)
	s.Mount(nil)

	if got := strings.Join(mounted, ","); got != "meta,wiki,wiki-api" {
		t.Fatalf("mount order = %s", got)
	}
	if got := strings.Join(s.Names(), ","); got != "meta,wiki,wiki-api" {
		t.Fatalf("Names() = %s", got)
	}
}

func TestNewSet_RejectsWiringBugs(t *testing.T) {
	testkit.MustPanic(t, func() { NewSet(stubModule{name: "wiki"}, stubModule{name: "wiki"}) })
	testkit.MustPanic(t, func() { NewSet(stubModule{name: "meta"}, nil) })
}
