package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ralt/repology/internal/dump"
	"github.com/ralt/repology/internal/logger"
	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/packageset"
	"github.com/ralt/repology/internal/repoman"
	"github.com/ralt/repology/internal/scanner"
	"github.com/ralt/repology/internal/signer"
	"github.com/ralt/repology/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// OutputSuffix is appended to the repository name to get the processed dump name
const OutputSuffix = ".packages.jsonl.gz"

// NewProcessCmd creates the process command
func NewProcessCmd() *cobra.Command {
	var config models.ProcessConfig

	cmd := &cobra.Command{
		Use:   "process [repo|tag...]",
		Short: "Process record dumps of repositories",
		Long: `Reads record dumps of the selected repositories, fills repository
attributes, checks and normalizes every record, and writes one processed
dump per repository. Without arguments all repositories are processed.

Dumps are looked up per source as <input-dir>/<repo>.state/<source>, falling
back to a single <input-dir>/<repo> dump, with any of the .jsonl, .json,
.gz, .xz and .zst suffixes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.RepoNames = args

			// Validate configuration
			if err := validateConfig(&config); err != nil {
				return err
			}

			logrus.Info("Starting repository processing...")
			logrus.Debugf("Configuration: repos=%s input=%s output=%s", config.ReposDir, config.InputDir, config.OutputDir)

			return runProcess(cmd.Context(), &config)
		},
	}

	// Input/Output flags
	cmd.Flags().StringVarP(&config.ReposDir, "repos-dir", "E", defaultReposDir, "Directory with repository definitions")
	cmd.Flags().StringVarP(&config.InputDir, "input-dir", "i", ".", "Directory with record dumps")
	cmd.Flags().StringVarP(&config.OutputDir, "output-dir", "o", "./processed", "Output directory")
	cmd.Flags().StringVarP(&config.LogFile, "logfile", "L", "", "Append processing log to file instead of stderr")

	// Processing flags
	cmd.Flags().BoolVar(&config.Transformed, "transformed", false, "Require effname on every record")
	cmd.Flags().BoolVar(&config.NoSafetyChecks, "no-safety-checks", false, "Do not enforce minimal package counts")

	// GPG flags
	cmd.Flags().StringVarP(&config.GPGKeyPath, "gpg-key", "k", "", "Path to GPG private key used to sign output")
	cmd.Flags().StringVarP(&config.GPGPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")
	cmd.Flags().StringVar(&config.VerifyKeyPath, "verify-key", "", "Path to GPG public key used to verify input dumps")

	return cmd
}

func validateConfig(config *models.ProcessConfig) error {
	if config.ReposDir == "" {
		return &models.ProcessError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("repos-dir is required"),
		}
	}

	if config.InputDir == "" {
		return &models.ProcessError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("input-dir is required"),
		}
	}

	if config.OutputDir == "" {
		return &models.ProcessError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("output-dir is required"),
		}
	}

	if config.GPGPassphrase != "" && config.GPGKeyPath == "" {
		return &models.ProcessError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("gpg-passphrase requires gpg-key"),
		}
	}

	return nil
}

// input is a dump holding the records of one repository source
type input struct {
	Source repoman.Source
	Dump   scanner.ScannedDump
}

// findInputs locates the dumps of a repository
func findInputs(inputDir string, repo *repoman.Repository) ([]input, error) {
	if info, err := os.Stat(repoman.StatePath(inputDir, repo)); err == nil && info.IsDir() && len(repo.Sources) > 0 {
		inputs := make([]input, 0, len(repo.Sources))
		for _, source := range repo.Sources {
			found, err := scanner.FindDump(repoman.SourcePath(inputDir, repo, source))
			if err != nil {
				return nil, fmt.Errorf("no dump for source %s: %w", source.Name, err)
			}
			inputs = append(inputs, input{Source: source, Dump: found})
		}
		return inputs, nil
	}

	found, err := scanner.FindDump(filepath.Join(inputDir, repo.Name))
	if err != nil {
		return nil, fmt.Errorf("no dump for %s in %s: %w", repo.Name, inputDir, err)
	}
	return []input{{Source: repoman.Source{Name: repo.Name}, Dump: found}}, nil
}

func runProcess(ctx context.Context, config *models.ProcessConfig) error {
	// Step 1: Load repository definitions
	manager, err := repoman.Load(config.ReposDir)
	if err != nil {
		return &models.ProcessError{Type: models.ErrInvalidConfig, Source: config.ReposDir, Err: err}
	}

	repos := manager.Repositories()
	if len(config.RepoNames) > 0 {
		repos = manager.GetRepositories(config.RepoNames)
	}
	if len(repos) == 0 {
		logrus.Warn("No repositories selected")
		return nil
	}

	// Step 2: Initialize signing
	var gpgSigner signer.Signer
	var verifier signer.Verifier

	if config.GPGKeyPath != "" {
		gpgSigner, err = signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
		if err != nil {
			return &models.ProcessError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
			}
		}
		logrus.Info("GPG signer initialized")
	}

	if config.VerifyKeyPath != "" {
		verifier, err = signer.NewGPGVerifier(config.VerifyKeyPath)
		if err != nil {
			return &models.ProcessError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to initialize GPG verifier: %w", err),
			}
		}
		logrus.Info("GPG verifier initialized")
	}

	if err := utils.EnsureDir(config.OutputDir); err != nil {
		return &models.ProcessError{Type: models.ErrFileOp, Source: config.OutputDir, Err: err}
	}

	// Step 3: Process repositories one by one
	audit := newAuditLogger(config.LogFile)

	var result *multierror.Error
	succeeded := 0

	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return err
		}

		logrus.Infof("Processing %s...", repo.Name)

		repoLog := audit.GetPrefixed(repo.Name + ": ")
		if err := processRepository(ctx, config, repo, repoLog, gpgSigner, verifier); err != nil {
			repoLog.Log("processing failed: " + err.Error())
			logrus.Errorf("Failed to process %s: %v", repo.Name, err)
			result = multierror.Append(result, err)
			continue
		}
		succeeded++
	}

	logrus.Infof("%d/%d repositories processed successfully", succeeded, len(repos))
	logrus.Infof("Output directory: %s", config.OutputDir)

	return result.ErrorOrNil()
}

func processRepository(ctx context.Context, config *models.ProcessConfig, repo *repoman.Repository, log logger.Logger, s signer.Signer, v signer.Verifier) error {
	if repo.ReachedEOL(time.Now()) {
		log.Log(fmt.Sprintf("WARNING: Repository %s has reached EoL, please update configs", repo.Name))
	}

	inputs, err := findInputs(config.InputDir, repo)
	if err != nil {
		return &models.ProcessError{Type: models.ErrFileOp, Source: repo.Name, Err: err}
	}

	log.Log("loading started")

	var pkgs []*models.Package
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if v != nil {
			if err := signer.VerifyFile(v, in.Dump.Path); err != nil {
				return &models.ProcessError{Type: models.ErrSigning, Source: in.Dump.Path, Err: err}
			}
		}

		logrus.Debugf("Loading %s dump: %s", in.Dump.Type, in.Dump.Path)

		loaded, err := dump.Load(in.Dump.Path, dump.LoadOptions{
			Transformed: config.Transformed,
			Prepare:     packageset.Prepare(repo, in.Source),
			Logger:      logger.Indented(log),
		})
		if err != nil {
			return err
		}
		pkgs = append(pkgs, loaded.Packages...)
	}

	log.Log(fmt.Sprintf("loading complete, %d packages", len(pkgs)))

	pkgs, err = packageset.Process(repo, pkgs, packageset.Options{
		Transformed:  config.Transformed,
		SafetyChecks: !config.NoSafetyChecks,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	outPath := filepath.Join(config.OutputDir, repo.Name+OutputSuffix)

	log.Log("saving started")
	if err := dump.WritePackages(outPath, pkgs); err != nil {
		return err
	}
	log.Log(fmt.Sprintf("saving complete, %d packages", len(pkgs)))

	checksum, err := utils.CalculateChecksum(outPath)
	if err != nil {
		return &models.ProcessError{Type: models.ErrFileOp, Source: outPath, Err: err}
	}
	logrus.Debugf("Wrote %s (%d bytes, sha256 %s)", outPath, checksum.Size, checksum.SHA256)

	if s != nil {
		sigPath, err := signer.SignFile(s, outPath)
		if err != nil {
			return &models.ProcessError{Type: models.ErrSigning, Source: outPath, Err: err}
		}
		log.Log("signed " + filepath.Base(sigPath))
	}

	return nil
}
