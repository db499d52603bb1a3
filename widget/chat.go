package widget

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"campusclub/client/api"
)

// mdRenderer renders assistant replies. Raw HTML in the reply is escaped;
// only markdown the renderer itself produces reaches the page.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

type chatVars struct {
	Dev       bool
	Question  string
	Reply     template.HTML
	Error     string
	CSRFField template.HTML
}

func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	s.renderChat(w, r, chatVars{})
}

// DoChat relays one question to the assistant and renders the reply. A
// failed call re-renders the page with the question kept and the server's
// error message shown.
func (s *Server) DoChat(w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.FormValue("message"))
	if question == "" {
		s.renderChat(w, r, chatVars{Error: "Type a question first."})
		return
	}

	reply, err := s.client.Assistant(r.Context(), question)
	if err != nil {
		slog.Error("assistant request failed", slog.Any("err", err))
		s.renderChat(w, r, chatVars{
			Question: question,
			Error:    api.UserMessageOf(err),
		})
		return
	}

	var buf bytes.Buffer
	if err = mdRenderer.Convert([]byte(reply), &buf); err != nil {
		slog.Error("failed to render assistant reply", slog.Any("err", err))
		s.renderChat(w, r, chatVars{Question: question, Error: "Failed to render the reply."})
		return
	}

	s.renderChat(w, r, chatVars{
		Question: question,
		Reply:    template.HTML(buf.String()),
	})
}

func (s *Server) renderChat(w http.ResponseWriter, r *http.Request, vars chatVars) {
	vars.Dev = s.cfg.Dev
	vars.CSRFField = csrf.TemplateField(r)
	if err := s.templates().ExecuteTemplate(w, "chat.gohtml", vars); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}
