package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/kvizarena/api/config"
	"github.com/kvizarena/api/database"
	"github.com/kvizarena/api/internal/app"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/repository"
	"github.com/kvizarena/api/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewImportCmd creates a quiz from a CSV file without going through the
// HTTP surface. Useful for seeding a fresh deployment.
func NewImportCmd() *cobra.Command {
	var (
		filePath    string
		name        string
		description string
		timeLimit   int
		mode        string
		startTime   string
		retakes     bool
		active      bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a quiz from a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			db, err := database.NewDatabase(cfg)
			if err != nil {
				return err
			}
			if err := app.AutoMigrateDB(db); err != nil {
				return err
			}

			req := dto.CreateQuizRequest{
				Name:                 name,
				Description:          description,
				TimeLimitPerQuestion: timeLimit,
				Mode:                 mode,
				IsActive:             active,
				AllowRetakes:         retakes,
			}
			if startTime != "" {
				parsed, err := time.Parse(time.RFC3339, startTime)
				if err != nil {
					return fmt.Errorf("invalid --start-time, want RFC 3339: %w", err)
				}
				req.StartTime = &parsed
			}

			file, err := os.Open(filePath)
			if err != nil {
				return err
			}
			defer file.Close()

			adminQuizService := service.NewAdminQuizService(repository.NewQuizRepository(db), repository.NewQuestionRepository(db))
			report, err := adminQuizService.ImportQuizCSV(req, file)
			if err != nil {
				return err
			}

			log.Info().
				Str("quizName", report.QuizName).
				Int("linked", report.QuestionsLinked).
				Int("created", report.QuestionsCreated).
				Int("skipped", report.RowsSkipped).
				Msg("Quiz imported")
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path to the CSV file")
	cmd.Flags().StringVar(&name, "name", "", "quiz name")
	cmd.Flags().StringVar(&description, "description", "", "quiz description")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 0, "seconds per question (0 uses the default)")
	cmd.Flags().StringVar(&mode, "mode", "on_demand", "quiz mode: on_demand or scheduled")
	cmd.Flags().StringVar(&startTime, "start-time", "", "RFC 3339 start time for scheduled quizzes")
	cmd.Flags().BoolVar(&retakes, "retakes", false, "allow players to retake the quiz")
	cmd.Flags().BoolVar(&active, "active", true, "publish the quiz immediately")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("name")

	return cmd
}
