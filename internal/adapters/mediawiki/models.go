package mediawiki

import (
	"encoding/json"
	"strings"
)

// envelope is the outer shape shared by every api.php response
type envelope struct {
	Error *RemoteError `json:"error,omitempty"`
}

// Tokens holds whatever token fields the server returned
// Missing fields stay empty; callers decide whether that is fatal
type Tokens struct {
	LoginToken string `json:"logintoken"`
	CSRFToken  string `json:"csrftoken"`
}

type tokensResp struct {
	Query *struct {
		Tokens *Tokens `json:"tokens"`
	} `json:"query"`
}

// LoginParams is the form for action=login
type LoginParams struct {
	Name     string
	Password string
	Token    string
}

// LoginReply is login.* from the response
type LoginReply struct {
	Result   string      `json:"result"`
	Code     string      `json:"code,omitempty"`
	Reason   LoginReason `json:"reason"`
	UserName string      `json:"lgusername,omitempty"`
	UserID   int64       `json:"lguserid,omitempty"`
}

// FailureCode returns the machine code of a failed login, looking at login.code then login.reason.code
func (r LoginReply) FailureCode() string {
	if r.Code != "" {
		return r.Code
	}
	return r.Reason.Code
}

// LoginReason accepts both the legacy string form and the {code,text} object form
type LoginReason struct {
	Code string `json:"code,omitempty"`
	Text string `json:"text,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (r *LoginReason) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		return json.Unmarshal(b, &r.Text)
	}
	type alias LoginReason
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*r = LoginReason(a)
	return nil
}

type loginResp struct {
	Login *LoginReply `json:"login"`
}

// BotPasswordParams is the form for action=botpasswords
type BotPasswordParams struct {
	Name   string
	Grants []string
	Reason string
	Token  string
}

// BotPasswordReply is botpasswords.* from the response
type BotPasswordReply struct {
	Status   string `json:"status"`
	Password string `json:"password,omitempty"`
	Message  string `json:"message,omitempty"`
}

type botPasswordResp struct {
	BotPasswords *BotPasswordReply `json:"botpasswords"`
}

// EditParams is the form for action=edit
type EditParams struct {
	Title   string
	Text    string
	Summary string
	Token   string
	Bot     bool
}

// EditReply is edit.* from the response
type EditReply struct {
	Result   string `json:"result"`
	Title    string `json:"title,omitempty"`
	PageID   int64  `json:"pageid,omitempty"`
	NewRevID int64  `json:"newrevid,omitempty"`
	OldRevID int64  `json:"oldrevid,omitempty"`
	NoChange bool   `json:"nochange,omitempty"`
	New      bool   `json:"new,omitempty"`

	// set by abuse filters, captchas and spam checks on a non-Success result
	Code string `json:"code,omitempty"`
	Info string `json:"info,omitempty"`
}

type editResp struct {
	Edit *EditReply `json:"edit"`
}

// Revision is the latest main-slot content of one page
type Revision struct {
	Title   string
	Missing bool
	RevID   int64
	Content string
}

type revisionsResp struct {
	Query *struct {
		Pages []struct {
			Title     string `json:"title"`
			Missing   bool   `json:"missing,omitempty"`
			Invalid   bool   `json:"invalid,omitempty"`
			Revisions []struct {
				RevID int64 `json:"revid"`
				Slots struct {
					Main struct {
						Content string `json:"content"`
					} `json:"main"`
				} `json:"slots"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}
