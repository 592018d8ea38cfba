// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/nexus-audit/internal/archive"
	"github.com/HendryAvila/nexus-audit/internal/archivetools"
	"github.com/HendryAvila/nexus-audit/internal/assessment"
	"github.com/HendryAvila/nexus-audit/internal/config"
	"github.com/HendryAvila/nexus-audit/internal/dataset"
	"github.com/HendryAvila/nexus-audit/internal/logging"
	"github.com/HendryAvila/nexus-audit/internal/prompts"
	"github.com/HendryAvila/nexus-audit/internal/resources"
	"github.com/HendryAvila/nexus-audit/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// openArchive is a package-level var to allow test injection.
var openArchive = archive.New

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the archive database and must be
// called on shutdown (typically via defer). It is always non-nil and
// safe to call even if the archive failed to open.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, noop, fmt.Errorf("invalid config: %w", err)
	}
	log := logging.New("server")

	// --- Create shared dependencies ---

	registry := assessment.NewRegistry()
	sessions := tools.NewSessionResolver(registry)

	// Audit state is per client session and dies with it.
	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(_ context.Context, cs server.ClientSession) {
		registry.Drop(cs.SessionID())
		log.Debug("session dropped", "session", cs.SessionID())
	})

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"nexus-audit",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register audit tools ---

	autonomyTool := tools.NewAutonomyTool(sessions)
	s.AddTool(autonomyTool.Definition(), autonomyTool.Handle)

	valuesTool := tools.NewValuesTool(sessions)
	s.AddTool(valuesTool.Definition(), valuesTool.Handle)

	biasDetectTool := tools.NewBiasDetectTool(sessions)
	s.AddTool(biasDetectTool.Definition(), biasDetectTool.Handle)

	biasChecklistTool := tools.NewBiasChecklistTool(sessions)
	s.AddTool(biasChecklistTool.Definition(), biasChecklistTool.Handle)

	summaryTool := tools.NewSummaryTool(sessions)
	s.AddTool(summaryTool.Definition(), summaryTool.Handle)

	reportTool := tools.NewReportTool(sessions)
	s.AddTool(reportTool.Definition(), reportTool.Handle)

	progressTool := tools.NewProgressTool(sessions)
	s.AddTool(progressTool.Definition(), progressTool.Handle)

	resetTool := tools.NewResetTool(sessions)
	s.AddTool(resetTool.Definition(), resetTool.Handle)

	exportTool := tools.NewExportTool()
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	datasetTool := tools.NewDatasetTool(dataset.Limits{
		MaxBytes: cfg.Dataset.MaxBytes,
		MaxRows:  cfg.Dataset.MaxRows,
	})
	s.AddTool(datasetTool.Definition(), datasetTool.Handle)

	// --- Register archive tools ---
	// The archive is optional. If the database cannot be opened, the
	// audit tools keep working; we log a warning and skip the archive
	// tools rather than failing the whole server.

	cleanup := noop
	if cfg.Archive.Enabled {
		store, err := openArchive(archive.Config{Path: cfg.ArchivePath()})
		if err != nil {
			log.Warn("archive disabled", "path", cfg.ArchivePath(), "error", err)
		} else {
			cleanup = func() {
				if err := store.Close(); err != nil {
					log.Warn("archive close", "error", err)
				}
			}
			archiveTool := archivetools.NewArchiveTool(store, sessions)
			s.AddTool(archiveTool.Definition(), archiveTool.Handle)

			historyTool := archivetools.NewHistoryTool(store)
			s.AddTool(historyTool.Definition(), historyTool.Handle)
		}
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(sessions)
	s.AddResource(resourceHandler.StateResource(), resourceHandler.HandleState)
	s.AddResource(resourceHandler.ReportResource(), resourceHandler.HandleReport)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the archive
// is disabled or failed to open.
func noop() {}

func serverInstructions() string {
	return `You have access to NEXUS Audit, an ethical risk self-assessment server for AI systems.

## WHEN TO ACTIVATE NEXUS

Suggest a NEXUS audit when the user:
- Is designing, deploying or reviewing an AI or automated decision system
- Asks whether a system is safe, fair or accountable
- Needs to document human oversight or bias review for a system

## HOW AN AUDIT WORKS

An audit has three modules. Only the first is mandatory.

1. audit_autonomy (mandatory): autonomy level 1-3 and four human-control
   criteria scored 1-5 (comprehension, capability, context, accountability).
   Risk score = 2 x level - mean of the four criteria.
   Tiers: >= 4 HIGH RISK, >= 2.5 MODERATE RISK, otherwise LOW RISK.
2. audit_values (optional): 100 points across fairness, transparency,
   privacy, autonomy, security and sustainability. The total must be
   exactly 100; a wrong total keeps the previous allocation.
3. audit_bias_detect and audit_bias_checklist (optional): the six bias
   categories and five review questions. They are independent.

The overall tier comes from the autonomy risk score alone. Values and
bias add context to the report but never change the tier.

## RULES

- Ask one question at a time and explain each criterion before scoring it.
- Re-submitting a module replaces its previous answers.
- audit_summary and audit_report fail until audit_autonomy has run.
- audit_reset discards the whole audit and needs confirm=true. Always ask
  the user before calling it.
- Use audit_progress to see what is left.

## DATASETS

dataset_describe profiles a CSV file (path or inline content): per-column
statistics and, for one column, its distribution. Use it to support the
sampling and grouping bias questions. It never changes the audit.

## ARCHIVE

When available, audit_archive saves the current report locally and
audit_history lists past audits with dashboard figures, or returns one
report by id.`
}
