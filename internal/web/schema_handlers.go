package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillgate/skillgate/internal/introspect"
	"github.com/skillgate/skillgate/internal/schema"
)

// Cache hints: documentation-derived schemas change rarely and tolerate
// staleness; probe-derived schemas are volatile and get a short lease.
const (
	cacheDocSchema   = "public, max-age=300, stale-while-revalidate=600"
	cacheDocEmpty    = "public, max-age=300"
	cacheProbeSchema = "public, max-age=60"
	cacheChildTables = "public, max-age=600"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Web] JSON encode error: %v", err)
	}
}

func schemaPayload(skill string, result *schema.Result) map[string]any {
	return map[string]any{
		"status":        "ok",
		"skill":         skill,
		"schema_source": result.Source,
		"actions":       result.Actions,
		"entity_groups": result.Groups,
	}
}

// handleListSkills serves GET /api/v1/schema/skills.
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills := s.catalog.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"skills": skills,
		"count":  len(skills),
	})
}

// handleListActions serves GET /api/v1/schema/actions/{skill}.
//
// Discovery falls back through: the execution collaborator's __discover__
// response, then action names declared in documentation frontmatter.
func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	skill := chi.URLParam(r, "skill")

	actions := s.executor.Discover(r.Context(), skill)
	if len(actions) == 0 {
		actions = s.catalog.Actions(skill)
	}
	if len(actions) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "error",
			"message": "Could not discover actions for " + skill,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok", "skill": skill, "actions": actions,
	})
}

// handleParams serves GET /api/v1/schema/params/{skill}, the entry point
// for form auto-generation.
//
// Documentation parsing runs first. When it yields nothing, actions known
// from live discovery are probed instead. "No documentation and nothing
// discoverable" is a 404; "documentation exists but nothing parsed" is a
// successful empty schema so the frontend can fall back to a generic form.
func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	skill := chi.URLParam(r, "skill")

	parsed, err := s.resolver.Resolve(skill)
	if err != nil && !errors.Is(err, schema.ErrNotFound) {
		log.Printf("[Web] resolve %s: %v", skill, err)
	}

	if parsed != nil && !parsed.Empty() {
		w.Header().Set("Cache-Control", cacheDocSchema)
		writeJSON(w, http.StatusOK, schemaPayload(skill, parsed))
		return
	}

	if actions := s.executor.Discover(r.Context(), skill); len(actions) > 0 {
		probed := s.prober.Probe(r.Context(), skill, actions)
		if !probed.Empty() {
			w.Header().Set("Cache-Control", cacheProbeSchema)
			writeJSON(w, http.StatusOK, schemaPayload(skill, probed))
			return
		}
	}

	if parsed == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"status":  "error",
			"message": "No SKILL.md found for " + skill,
		})
		return
	}

	// Documentation exists but carries no parseable action metadata.
	w.Header().Set("Cache-Control", cacheDocEmpty)
	writeJSON(w, http.StatusOK, schemaPayload(skill, parsed))
}

// handleChildTables serves GET /api/v1/schema/child-tables/{skill}.
// Introspection failures degrade to an empty result — a broken database
// must not take the schema endpoints down with it.
func (s *Server) handleChildTables(w http.ResponseWriter, r *http.Request) {
	skill := chi.URLParam(r, "skill")

	tables, err := s.introspector.Introspect(skill)
	if err != nil {
		log.Printf("[Web] introspect %s: %v", skill, err)
		tables = nil
	}
	if tables == nil {
		tables = map[string][]introspect.ChildTable{}
	}

	w.Header().Set("Cache-Control", cacheChildTables)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"skill":        skill,
		"child_tables": tables,
	})
}
