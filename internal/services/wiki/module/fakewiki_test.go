package module

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeWiki is a tiny api.php. Alice's first main-account login is refused with
// WrongPass, later ones and her minted bot password succeed, and edits answer
// 429 throttle times before succeeding
type fakeWiki struct {
	mu        sync.Mutex
	throttle  int
	edits     []map[string]string
	botMinted int
	aliceTry  int
	actions   []string
}

func (f *fakeWiki) serve(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()

		action := r.Form.Get("action")
		f.actions = append(f.actions, action)
		w.Header().Set("Content-Type", "application/json")

		switch action {
		case "query":
			switch {
			case r.Form.Get("meta") == "tokens" && r.Form.Get("type") == "login":
				fmt.Fprint(w, `{"query":{"tokens":{"logintoken":"lt123+\\"}}}`)
			case r.Form.Get("meta") == "tokens":
				fmt.Fprint(w, `{"query":{"tokens":{"csrftoken":"csrf123+\\"}}}`)
			case r.Form.Get("prop") == "revisions":
				fmt.Fprintf(w, `{"query":{"pages":[{"title":%q,"revisions":[{"revid":41,"slots":{"main":{"content":"Sandbox body"}}}]}]}}`,
					r.Form.Get("titles"))
			default:
				fmt.Fprint(w, `{"error":{"code":"badquery","info":"unexpected query"}}`)
			}
		case "login":
			name, pw := r.Form.Get("lgname"), r.Form.Get("lgpassword")
			switch {
			case name == "Alice":
				f.aliceTry++
				if f.aliceTry == 1 {
					fmt.Fprint(w, `{"login":{"result":"Failed","reason":{"code":"WrongPass","text":"Incorrect password entered."}}}`)
					return
				}
				fmt.Fprint(w, `{"login":{"result":"Success","lgusername":"Alice"}}`)
			case name == "Alice@PsiAdirondackBot" && pw == "minted-secret":
				fmt.Fprint(w, `{"login":{"result":"Success","lgusername":"Alice"}}`)
			default:
				fmt.Fprint(w, `{"login":{"result":"Failed","reason":{"code":"WrongPass","text":"Incorrect password entered."}}}`)
			}
		case "botpasswords":
			f.botMinted++
			fmt.Fprint(w, `{"botpasswords":{"status":"success","password":"minted-secret"}}`)
		case "edit":
			if f.throttle > 0 {
				f.throttle--
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			f.edits = append(f.edits, map[string]string{
				"title":   r.Form.Get("title"),
				"text":    r.Form.Get("text"),
				"summary": r.Form.Get("summary"),
				"token":   r.Form.Get("token"),
				"bot":     r.Form.Get("bot"),
			})
			fmt.Fprintf(w, `{"edit":{"result":"Success","title":%q,"newrevid":%d}}`, r.Form.Get("title"), 1000+len(f.edits))
		default:
			fmt.Fprint(w, `{"error":{"code":"unknown_action","info":"Unrecognized value for parameter \"action\""}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}
