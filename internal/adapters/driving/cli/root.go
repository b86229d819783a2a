// Package cli implements the fetchit command-line interface. Commands are
// thin adapters over the driving ports; all engine behaviour lives in the
// core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/fetchit-ai/fetchit/internal/core/ports/driving"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services the commands depend on. Set once at startup via SetServices.
var (
	agentService    driving.AgentService
	feedbackService driving.FeedbackService
)

// Persistent flags shared by all commands.
var (
	flagVerbose bool
	flagUser    string
)

var rootCmd = &cobra.Command{
	Use:   "fetchit",
	Short: "Personal question answering over your own documents",
	Long: `FetchIt indexes your documents and answers questions about them.

Documents are chunked and embedded into a per-user index. Questions are
answered by retrieving the most relevant chunks and synthesising a response,
falling back through a chain of generative providers and finally to an
extractive summary when no provider is available.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print pipeline details to stderr")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "default", "user whose index to operate on")
}

// Services bundles the driving ports the commands need.
type Services struct {
	Agent    driving.AgentService
	Feedback driving.FeedbackService
}

// SetServices wires the engine services into the commands.
func SetServices(s Services) {
	agentService = s.Agent
	feedbackService = s.Feedback
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
