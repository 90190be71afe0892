package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/skillgate/skillgate/internal/catalog"
	"github.com/skillgate/skillgate/internal/config"
	"github.com/skillgate/skillgate/internal/introspect"
	"github.com/skillgate/skillgate/internal/probe"
	"github.com/skillgate/skillgate/internal/runner"
	"github.com/skillgate/skillgate/internal/schema"
	"github.com/skillgate/skillgate/internal/web"
)

func main() {
	config.LoadEnv()

	skillsDir := config.String("SKILLS_DIR", "")
	if skillsDir == "" {
		home, _ := os.UserHomeDir()
		skillsDir = filepath.Join(home, "clawd", "skills")
	}
	if info, err := os.Stat(skillsDir); err != nil || !info.IsDir() {
		log.Fatalf("[Main] SKILLS_DIR %q does not exist or is not a directory", skillsDir)
	}
	dataDir := config.String("SKILL_DATA_DIR", config.HomePath(".openclaw"))

	actionTimeout := config.Duration("ACTION_TIMEOUT", 30*time.Second)
	probeTTL := config.Duration("PROBE_CACHE_TTL", 0) // 0 = cache for process lifetime

	run := runner.New(skillsDir, actionTimeout)
	resolver := schema.NewResolver(skillsDir)
	prober := probe.New(run, probeTTL)
	introspector := introspect.New(dataDir)
	cat := catalog.New(skillsDir)

	log.Printf("[Main] Skills: %s", skillsDir)
	log.Printf("[Main] Skill data: %s", dataDir)
	log.Printf("[Main] Action timeout: %s, probe cache TTL: %s", actionTimeout, probeTTL)

	server := web.NewServer(resolver, run, prober, introspector, cat)
	if err := server.Start(); err != nil {
		log.Fatalf("[Main] Server error: %v", err)
	}
}
