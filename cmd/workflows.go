package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devassist/internal/workflow"
)

// AuditCommand returns the recruitment-audit command
func AuditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Run a recruitment-style audit of code or a repository",
		Flags: append(commonFlags(), analysisFlags()...),
		Action: func(c *cli.Context) error {
			return runAnalysis(c, func(ctrl *workflow.Controller) analysisFunc {
				return ctrl.Audit
			})
		},
	}
}

// ReviewCommand returns the code-review command
func ReviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Run a senior code review of code or a repository",
		Flags: append(commonFlags(), analysisFlags()...),
		Action: func(c *cli.Context) error {
			return runAnalysis(c, func(ctrl *workflow.Controller) analysisFunc {
				return ctrl.Review
			})
		},
	}
}

// MRCommand returns the merge-request description command
func MRCommand() *cli.Command {
	return &cli.Command{
		Name:  "mr",
		Usage: "Generate a merge request description from a diff",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:  "diff-file",
				Usage: "Path to a pre-generated diff file",
			},
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Public repository URL",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Source (feature) branch",
			},
			&cli.StringFlag{
				Name:  "target",
				Usage: "Target (main/develop) branch",
			},
			outputFlag(),
		),
		Action: runMR,
	}
}

type analysisFunc func(ctx context.Context, sess *workflow.Session, in workflow.Input) (*workflow.Result, error)

func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Path to a text file with the code to analyze",
		},
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Public repository URL to clone and analyze",
		},
		outputFlag(),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the response to a file instead of stdout",
	}
}

func runAnalysis(c *cli.Context, pick func(*workflow.Controller) analysisFunc) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	in := workflow.Input{RepoURL: c.String("repo")}
	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
		in.Content = string(data)
	}

	ctrl := buildController(cfg)
	sess := workflow.NewSession(cfg.Groq.APIKey, cfg.Groq.Model)

	result, err := pick(ctrl)(c.Context, sess, in)
	if err != nil {
		return err
	}
	return emit(c, result.Response)
}

func runMR(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	in := workflow.MRInput{
		RepoURL:      c.String("repo"),
		SourceBranch: c.String("source"),
		TargetBranch: c.String("target"),
	}
	if path := c.String("diff-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading diff file: %w", err)
		}
		in.Diff = string(data)
	}

	ctrl := buildController(cfg)
	sess := workflow.NewSession(cfg.Groq.APIKey, cfg.Groq.Model)

	result, err := ctrl.MergeRequest(c.Context, sess, in)
	if err != nil {
		return err
	}
	return emit(c, result.Response)
}

// emit writes the response to --output or stdout.
func emit(c *cli.Context, response string) error {
	if path := c.String("output"); path != "" {
		if err := os.WriteFile(path, []byte(response), 0644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		fmt.Printf("Response written to %s\n", path)
		return nil
	}
	fmt.Println(response)
	return nil
}
