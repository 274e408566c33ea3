package host

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gauthierbraillon/winelocals/internal/shell"
)

//go:embed templates/*.html static/*
var assets embed.FS

type pages struct {
	tmpl   *template.Template
	static http.Handler
}

type pageData struct {
	App    shell.AppConfig
	Active shell.Tab
	Title  string
	NavBar []shell.NavItem
}

func loadPages() (*pages, error) {
	tmpl, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	return &pages{
		tmpl:   tmpl,
		static: http.StripPrefix("/static/", http.FileServer(http.FS(sub))),
	}, nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/tabs/"+string(s.shell.Active()), http.StatusFound)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	tab, err := s.shell.Select(chi.URLParam(r, "tab"))
	if err != nil {
		if errors.Is(err, shell.ErrUnknownTab) {
			http.NotFound(w, r)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "shell", err.Error())
		return
	}

	data := pageData{
		App:    s.cfg.App,
		Active: tab,
		Title:  tab.Label(),
		NavBar: shell.NavBar,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error().Err(err).Str("tab", string(tab)).Msg("render failed")
	}
}

func (s *Server) handleShellState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.shell.State())
}
