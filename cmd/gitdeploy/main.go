// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/navwar/gitdeploy/pkg/deploy"
	"github.com/navwar/gitdeploy/pkg/fs"
	"github.com/navwar/gitdeploy/pkg/git"
	"github.com/navwar/gitdeploy/pkg/lfs"
	"github.com/navwar/gitdeploy/pkg/log"
	"github.com/navwar/gitdeploy/pkg/s3fs"
	"github.com/navwar/gitdeploy/pkg/sftpfs"
	"github.com/navwar/gitdeploy/pkg/ts"
)

const (
	GitDeployVersion = "0.0.1"
)

// Config keys without a flag
const (
	keyDestination = "destination"
)

// Config Defaults
const (
	DefaultConfigFile     = "gitdeploy.yml"
	DefaultUserConfigFile = "gitdeploy/config.yml" // relative to the XDG config directories
)

// AWS Flags
const (
	// Profile
	flagAWSProfile       = "aws-profile"
	flagAWSDefaultRegion = "aws-default-region"
	flagAWSRegion        = "aws-region"
	// Credentials
	flagAWSAccessKeyID     = "aws-access-key-id"
	flagAWSSecretAccessKey = "aws-secret-access-key"
	flagAWSSessionToken    = "aws-session-token"
	// Client
	flagAWSRetryMaxAttempts = "aws-retry-max-attempts"
	// TLS
	flagAWSInsecureSkipVerify = "aws-insecure-skip-verify"
	// Miscellaneous
	flagAWSS3Endpoint     = "aws-s3-endpoint"
	flagAWSS3UsePathStyle = "aws-s3-use-path-style"
	flagBucketKeyEnabled  = "aws-bucket-key-enabled"
	flagACL               = "aws-acl"
	flagPartSize          = "part-size"
)

// S3 Defaults
const (
	DefaultPartSize = s3fs.DefaultPartSize
	MinimumPartSize = 1_048_576 * 5 // 5 MiB
)

// SFTP Flags
const (
	flagSFTPUser                  = "sftp-user"
	flagSFTPPassword              = "sftp-password"
	flagSFTPKeyFile               = "sftp-key-file"
	flagSFTPPassphrase            = "sftp-passphrase"
	flagSFTPKnownHosts            = "sftp-known-hosts"
	flagSFTPInsecureIgnoreHostKey = "sftp-insecure-ignore-host-key"
	flagSFTPTimeout               = "sftp-timeout"
)

// SFTP Defaults
const (
	DefaultSFTPTimeout = 30 * time.Second
)

// Debug Flag
const (
	flagDebug = "debug"
)

// Repository Flags
const (
	flagConfig     = "config"
	flagRepository = "repository"
	flagRevision   = "revision"
	flagPath       = "local-path"
)

// Deploy Flags
const (
	flagStrategy = "strategy"
	flagFull     = "full"
	flagDryRun   = "dry-run"
	flagExclude  = "exclude"
)

// Log Flags
const (
	flagLogPath            = "log-path"
	flagLogFormat          = "log-format"
	flagLogPerm            = "log-perm"
	flagTimeLayout         = "time-layout"
	flagTimeZone           = "time-zone"
	flagLogClientSigning   = "log-client-signing"
	flagLogClientRequests  = "log-client-requests"
	flagLogClientResponses = "log-client-responses"
	flagLogClientRetries   = "log-client-retries"
)

// Log Defaults
const (
	DefaultLogFormat  = log.FormatText
	DefaultTimeLayout = "RFC3339"
	DefaultTimeZone   = "UTC"
)

var (
	ErrMissingDestination = errors.New("destination is missing")
)

func initAWSFlags(flag *pflag.FlagSet) {
	// Profile
	flag.String(flagAWSProfile, "default", "AWS Profile")
	flag.String(flagAWSDefaultRegion, "", "AWS Default Region")
	flag.String(flagAWSRegion, "", "AWS Region (overrides default region)")
	// Credentials
	flag.String(flagAWSAccessKeyID, "", "AWS Access Key ID")
	flag.String(flagAWSSecretAccessKey, "", "AWS Secret Access Key")
	flag.String(flagAWSSessionToken, "", "AWS Session Token")
	// Client
	flag.Int(flagAWSRetryMaxAttempts, 5, "the maximum number attempts an AWS API client will call an operation that fails with a retryable error.")
	// TLS
	flag.Bool(flagAWSInsecureSkipVerify, false, "Skip verification of AWS TLS certificate")
	// Misceallenous
	flag.String(flagAWSS3Endpoint, "", "AWS S3 Endpoint URL")
	flag.Bool(flagAWSS3UsePathStyle, false, "Use path-style addressing (default is to use virtual-host-style addressing)")
	flag.Bool(flagBucketKeyEnabled, false, "bucket key enabled")
	flag.String(flagACL, "", "canned ACL applied to uploaded objects, e.g., private or public-read")
	flag.Int(flagPartSize, DefaultPartSize, fmt.Sprintf("size of parts in bytes when uploading large files to S3 (minimum %d)", MinimumPartSize))
}

func initSFTPFlags(flag *pflag.FlagSet) {
	flag.String(flagSFTPUser, "", "SFTP user (overrides the user in the destination URI)")
	flag.String(flagSFTPPassword, "", "SFTP password (overrides the password in the destination URI)")
	flag.String(flagSFTPKeyFile, "", "path to the SSH private key.  If no password or key is given, the SSH agent is used.")
	flag.String(flagSFTPPassphrase, "", "passphrase for the SSH private key")
	flag.String(flagSFTPKnownHosts, defaultKnownHosts(), "path to the SSH known hosts file")
	flag.Bool(flagSFTPInsecureIgnoreHostKey, false, "skip verification of the SFTP server host key")
	flag.Duration(flagSFTPTimeout, DefaultSFTPTimeout, "timeout for establishing the SFTP connection")
}

func initDebugFlags(flag *pflag.FlagSet) {
	flag.BoolP(flagDebug, "d", false, "print debug messages")
}

func initRepositoryFlags(flag *pflag.FlagSet) {
	flag.String(flagConfig, "", fmt.Sprintf("path to the config file.  Defaults to %q in the repository, or %q in the user config directory, if either exists.", DefaultConfigFile, DefaultUserConfigFile))
	flag.StringP(flagRepository, "C", ".", "path to the git repository")
	flag.StringP(flagRevision, "r", git.DefaultRevision, "git revision to deploy")
	flag.String(flagPath, "", "subdirectory of the repository to deploy")
}

func initDeployFlags(flag *pflag.FlagSet) {
	flag.StringP(flagStrategy, "s", deploy.StrategyAuto.String(), "deploy strategy.  Either auto, incremental, or full.")
	flag.Bool(flagFull, false, "deploy all files (same as --strategy full)")
	flag.BoolP(flagDryRun, "n", false, "show what would be deployed without changing the destination")
	flag.StringSliceP(flagExclude, "e", []string{}, "path to exclude from the deploy, relative to the deployed directory.  May be repeated.")
}

func initLogFlags(flag *pflag.FlagSet) {
	flag.String(flagLogPath, "-", "path to the log output.  Defaults to the operating system's stdout device.")
	flag.String(flagLogPerm, "0600", "file permissions for log output file as unix file mode.")
	flag.StringP(flagLogFormat, "f", DefaultLogFormat, "output log format.  Either jsonl or text.")
	flag.StringP(flagTimeLayout, "t", DefaultTimeLayout, "the layout to use for log timestamps.  Use go layout format, or the name of a layout.  Use gitdeploy layouts to show all named layouts.")
	flag.StringP(flagTimeZone, "z", DefaultTimeZone, "the timezone to use for log timestamps")
	flag.Bool(flagLogClientSigning, false, "log AWS client signature requests")
	flag.Bool(flagLogClientRequests, false, "log AWS client requests")
	flag.Bool(flagLogClientResponses, false, "log AWS client responses")
	flag.Bool(flagLogClientRetries, false, "log AWS client retries")
}

func initStoreCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initRepositoryFlags(flag)
	initAWSFlags(flag)
	initSFTPFlags(flag)
	initLogFlags(flag)
}

func initDeployCommandFlags(flag *pflag.FlagSet) {
	initStoreCommandFlags(flag)
	initDeployFlags(flag)
}

func defaultKnownHosts() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "known_hosts")
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

// findConfigFile returns the config file in the repository, or else the user config file, if either exists.
func findConfigFile(repositoryRoot string) string {
	repositoryConfigFile := filepath.Join(repositoryRoot, DefaultConfigFile)
	if _, err := os.Stat(repositoryConfigFile); err == nil {
		return repositoryConfigFile
	}
	if userConfigFile, err := xdg.SearchConfigFile(DefaultUserConfigFile); err == nil {
		return userConfigFile
	}
	return ""
}

// initConfigFile reads the config file given by flag, or else the default config file if one exists.
// Flags and environment variables take precedence over the config file.
func initConfigFile(v *viper.Viper, repositoryRoot string) error {
	configFile := v.GetString(flagConfig)
	if len(configFile) == 0 {
		configFile = findConfigFile(repositoryRoot)
		if len(configFile) == 0 {
			return nil
		}
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", configFile, err)
	}
	return nil
}

func checkLogConfig(v *viper.Viper, args []string) error {
	logPath := v.GetString(flagLogPath)
	if len(logPath) == 0 {
		return fmt.Errorf("log path is missing")
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	logFormat := v.GetString(flagLogFormat)
	if logFormat != log.FormatJSONL && logFormat != log.FormatText {
		return fmt.Errorf("invalid log format %q, expecting one of %q", logFormat, log.Formats)
	}
	if _, err := ts.ParseLocation(v.GetString(flagTimeZone)); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", v.GetString(flagTimeZone), err)
	}
	return nil
}

func checkStoreConfig(v *viper.Viper, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expecting at most 1 positional argument for destination, but found %d arguments", len(args))
	}
	destination := v.GetString(keyDestination)
	if len(destination) == 0 {
		return ErrMissingDestination
	}
	if strings.HasPrefix(destination, "s3://") {
		if _, _, err := s3fs.Parse(destination); err != nil {
			return err
		}
		if partSize := v.GetInt(flagPartSize); partSize < MinimumPartSize {
			return fmt.Errorf("part size %d is less than the minimum part size %d", partSize, MinimumPartSize)
		}
	}
	if strings.HasPrefix(destination, "sftp://") {
		if _, _, err := sftpfs.Parse(destination); err != nil {
			return err
		}
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

func checkDeployConfig(v *viper.Viper, args []string) error {
	if err := checkStoreConfig(v, args); err != nil {
		return err
	}
	if _, err := deploy.ParseStrategy(v.GetString(flagStrategy)); err != nil {
		return err
	}
	if v.GetBool(flagFull) {
		if s := v.GetString(flagStrategy); s != deploy.StrategyAuto.String() && s != deploy.StrategyFull.String() {
			return fmt.Errorf("%q is incompatible with strategy %q", flagFull, s)
		}
	}
	return nil
}

// initDestination uses the positional argument as the destination, if given.
func initDestination(v *viper.Viper, args []string) {
	if len(args) == 1 {
		v.Set(keyDestination, args[0])
	}
}

type InitS3ClientInput struct {
	Profile string
	Region  string
	// AWS Client
	Endpoint           string
	InsecureSkipVerify bool
	RetryMaxAttempts   int
	UsePathStyle       bool
	// AWS Credentials
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// Client Log Mode
	Logger             fs.Logger
	LogClientSigning   bool
	LogClientRetries   bool
	LogClientRequests  bool
	LogClientResponses bool
}

func InitS3Client(ctx context.Context, input *InitS3ClientInput) *s3.Client {
	clientLogMode := aws.ClientLogMode(0)
	if input.LogClientSigning {
		clientLogMode |= aws.LogSigning
	}
	if input.LogClientRetries {
		clientLogMode |= aws.LogRetries
	}
	if input.LogClientRequests {
		clientLogMode |= aws.LogRequest
	}
	if input.LogClientResponses {
		clientLogMode |= aws.LogResponse
	}

	c := aws.Config{
		ClientLogMode:    clientLogMode,
		RetryMaxAttempts: input.RetryMaxAttempts,
		Region:           input.Region,
		Logger:           log.NewClientLogger(input.Logger),
	}

	if len(input.AccessKeyID) > 0 && len(input.SecretAccessKey) > 0 {
		c.Credentials = credentials.NewStaticCredentialsProvider(
			input.AccessKeyID,
			input.SecretAccessKey,
			input.SessionToken)
	} else {
		sharedConfig, err := config.LoadSharedConfigProfile(ctx, input.Profile)
		if err == nil {
			c.Credentials = credentials.NewStaticCredentialsProvider(
				sharedConfig.Credentials.AccessKeyID,
				sharedConfig.Credentials.SecretAccessKey,
				sharedConfig.Credentials.SessionToken)
			if len(c.Region) == 0 {
				c.Region = sharedConfig.Region
			}
		}
	}

	if input.InsecureSkipVerify {
		c.HTTPClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		}
	}

	return s3.NewFromConfig(c, func(o *s3.Options) {
		o.UsePathStyle = input.UsePathStyle
		if len(input.Endpoint) > 0 {
			o.BaseEndpoint = aws.String(input.Endpoint)
		}
	})
}

type InitStoreInput struct {
	Viper       *viper.Viper
	Destination string
	Logger      fs.Logger
}

// InitStore returns the store for the destination URI.
// Local directories are specified using the "file://" scheme or a path without a scheme.
func InitStore(ctx context.Context, input *InitStoreInput) (fs.Store, error) {
	v := input.Viper

	if strings.HasPrefix(input.Destination, "s3://") {
		bucket, prefix, err := s3fs.Parse(input.Destination)
		if err != nil {
			return nil, err
		}

		region := v.GetString(flagAWSRegion)
		if len(region) == 0 {
			region = v.GetString(flagAWSDefaultRegion)
		}

		clientInput := &InitS3ClientInput{
			Profile: v.GetString(flagAWSProfile),
			Region:  region,
			// AWS Client
			Endpoint:           v.GetString(flagAWSS3Endpoint),
			InsecureSkipVerify: v.GetBool(flagAWSInsecureSkipVerify),
			RetryMaxAttempts:   v.GetInt(flagAWSRetryMaxAttempts),
			UsePathStyle:       v.GetBool(flagAWSS3UsePathStyle),
			// AWS Credentials
			AccessKeyID:     v.GetString(flagAWSAccessKeyID),
			SecretAccessKey: v.GetString(flagAWSSecretAccessKey),
			SessionToken:    v.GetString(flagAWSSessionToken),
			// Client Mode
			Logger:             input.Logger,
			LogClientSigning:   v.GetBool(flagLogClientSigning),
			LogClientRetries:   v.GetBool(flagLogClientRetries),
			LogClientRequests:  v.GetBool(flagLogClientRequests),
			LogClientResponses: v.GetBool(flagLogClientResponses),
		}

		client := InitS3Client(ctx, clientInput)

		//
		// Get Client for the region of the bucket
		//

		getBucketLocationOutput, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
			Bucket: aws.String(bucket),
		})
		if err == nil {
			bucketRegion := string(getBucketLocationOutput.LocationConstraint)
			if len(bucketRegion) == 0 {
				bucketRegion = "us-east-1"
			}
			if bucketRegion != region {
				clientInput.Region = bucketRegion
				client = InitS3Client(ctx, clientInput)
			}
		}
		// If GetBucketLocation is not allowed, assume that the configured region contains the bucket

		return s3fs.NewS3FileSystem(
			client,
			bucket,
			prefix,
			types.ObjectCannedACL(v.GetString(flagACL)),
			v.GetBool(flagBucketKeyEnabled),
			v.GetInt(flagPartSize)), nil
	}

	if strings.HasPrefix(input.Destination, "sftp://") {
		dialInput, root, err := sftpfs.Parse(input.Destination)
		if err != nil {
			return nil, err
		}
		if user := v.GetString(flagSFTPUser); len(user) > 0 {
			dialInput.User = user
		}
		if password := v.GetString(flagSFTPPassword); len(password) > 0 {
			dialInput.Password = password
		}
		dialInput.KeyFile = v.GetString(flagSFTPKeyFile)
		dialInput.Passphrase = v.GetString(flagSFTPPassphrase)
		dialInput.KnownHostsFile = v.GetString(flagSFTPKnownHosts)
		dialInput.InsecureIgnoreHostKey = v.GetBool(flagSFTPInsecureIgnoreHostKey)
		dialInput.Timeout = v.GetDuration(flagSFTPTimeout)
		sftpClient, closers, err := sftpfs.Dial(dialInput)
		if err != nil {
			return nil, err
		}
		return sftpfs.NewSFTPFileSystem(sftpClient, root, sftpfs.Address(dialInput, root), closers...), nil
	}

	return lfs.NewLocalFileSystem(strings.TrimPrefix(input.Destination, "file://")), nil
}

// closeStore closes the store if it holds a connection.
func closeStore(store fs.Store) {
	if c, ok := store.(io.Closer); ok {
		_ = c.Close()
	}
}

// checkLocalDestination returns an error if a local destination overlaps the repository worktree.
func checkLocalDestination(destination string, repositoryRoot string) error {
	if strings.HasPrefix(destination, "s3://") || strings.HasPrefix(destination, "sftp://") {
		return nil
	}
	destinationPath, err := filepath.Abs(strings.TrimPrefix(destination, "file://"))
	if err != nil {
		return fmt.Errorf("error resolving destination %q: %w", destination, err)
	}
	repositoryPath, err := filepath.Abs(repositoryRoot)
	if err != nil {
		return fmt.Errorf("error resolving repository %q: %w", repositoryRoot, err)
	}
	return lfs.Check(repositoryPath, destinationPath)
}

// Status compares the local revision with the revision deployed to a destination.
type Status struct {
	Address string
	Local   string
	Remote  string // empty if nothing has been deployed
}

func (s *Status) DeployNeeded() bool {
	return s.Local != s.Remote
}

func (s *Status) Print(w io.Writer) {
	remote := s.Remote
	if len(remote) == 0 {
		remote = "none"
	}
	fmt.Fprintf(w, "destination: %s\n", s.Address)
	fmt.Fprintf(w, "local: %s\n", s.Local)
	fmt.Fprintf(w, "remote: %s\n", remote)
	fmt.Fprintf(w, "deploy needed: %t\n", s.DeployNeeded())
}

// readStatus reads the local and the deployed revision concurrently.
func readStatus(ctx context.Context, store fs.Store, localRevision func() (string, error)) (*Status, error) {
	status := &Status{Address: store.Address()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		revision, err := localRevision()
		if err != nil {
			return err
		}
		status.Local = revision
		return nil
	})
	g.Go(func() error {
		revision, err := deploy.ReadRevision(gctx, store)
		if err != nil {
			if errors.Is(err, deploy.ErrNoRemoteRevision) {
				return nil
			}
			return err
		}
		status.Remote = revision
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return status, nil
}

func initLogger(v *viper.Viper) (*log.SimpleLogger, error) {
	location, err := ts.ParseLocation(v.GetString(flagTimeZone))
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone: %w", err)
	}

	input := &log.SimpleLoggerInput{
		Format:   v.GetString(flagLogFormat),
		Layout:   ts.ParseLayout(v.GetString(flagTimeLayout)),
		Location: location,
	}

	path := v.GetString(flagLogPath)

	if path == os.DevNull {
		input.Writer = io.Discard
		return log.NewSimpleLoggerWithInput(input), nil
	}

	if path == "-" {
		input.Writer = os.Stdout
		return log.NewSimpleLoggerWithInput(input), nil
	}

	fileMode := os.FileMode(0600)

	if perm := v.GetString(flagLogPerm); len(perm) > 0 {
		fm, err := strconv.ParseUint(perm, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing file permissions for log file from %q", perm)
		}
		fileMode = os.FileMode(fm)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %q: %w", path, err)
	}

	input.Writer = f
	return log.NewSimpleLoggerWithInput(input), nil
}

// repositoryContext holds the repository and configuration shared by commands.
type repositoryContext struct {
	viper *viper.Viper
	repo  *git.Repository
	root  string
}

func initRepositoryContext(cmd *cobra.Command, args []string) (*repositoryContext, error) {
	v, err := initViper(cmd)
	if err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	repo, err := git.Open(v.GetString(flagRepository))
	if err != nil {
		return nil, err
	}

	root, err := git.WorktreeRoot(repo)
	if err != nil {
		return nil, err
	}

	if err := initConfigFile(v, root); err != nil {
		return nil, err
	}

	initDestination(v, args)

	return &repositoryContext{viper: v, repo: repo, root: root}, nil
}

func main() {
	rootCommand := &cobra.Command{
		Use:                   `gitdeploy [flags]`,
		DisableFlagsInUseLine: true,
		Short: strings.Join([]string{
			"gitdeploy is a simple command line program for deploying a git repository to a destination specified by URI.",
			"Only the files changed since the revision recorded at the destination are uploaded or deleted.",
			"gitdeploy schemes returns the currently supported schemes.",
			"Local directories are specified using the \"file://\" scheme or a path without a scheme.",
			"S3 buckets are specified using the \"s3://\" scheme.",
			"SFTP servers are specified using the \"sftp://\" scheme.",
		}, "\n"),
	}

	layoutsCommand := &cobra.Command{
		Use:                   `layouts`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported timestamp layouts",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range ts.Names() {
				fmt.Printf("%s: %s\n", name, ts.NamedLayouts[name])
			}
			return nil
		},
	}

	deployCommand := &cobra.Command{
		Use:                   `deploy [flags] [DESTINATION]`,
		DisableFlagsInUseLine: true,
		Short:                 "deploy",
		Long:                  "deploy the repository at the revision to the destination",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			rc, err := initRepositoryContext(cmd, args)
			if err != nil {
				return err
			}
			v := rc.viper

			if errConfig := checkDeployConfig(v, args); errConfig != nil {
				return errConfig
			}

			debug := v.GetBool(flagDebug)

			logger, err := initLogger(v)
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			strategy, err := deploy.ParseStrategy(v.GetString(flagStrategy))
			if err != nil {
				return err
			}
			if v.GetBool(flagFull) {
				strategy = deploy.StrategyFull
			}

			destination := v.GetString(keyDestination)

			if err := checkLocalDestination(destination, rc.root); err != nil {
				return err
			}

			tree, err := git.NewTree(&git.TreeInput{
				Repository: rc.repo,
				Revision:   v.GetString(flagRevision),
				Path:       v.GetString(flagPath),
			})
			if err != nil {
				return fmt.Errorf("error reading repository %q: %w", rc.root, err)
			}

			exclusions := deploy.NewExclusions(v.GetStringSlice(flagExclude)...)

			if debug {
				_ = logger.Log("Config", map[string]interface{}{
					"repository":  rc.root,
					"revision":    tree.Revision(),
					"path":        v.GetString(flagPath),
					"destination": destination,
					"strategy":    strategy.String(),
					"exclude":     exclusions.Paths(),
					"dry_run":     v.GetBool(flagDryRun),
				})
			}

			store, err := InitStore(ctx, &InitStoreInput{
				Viper:       v,
				Destination: destination,
				Logger:      logger,
			})
			if err != nil {
				return fmt.Errorf("error initializing destination %q: %w", destination, err)
			}
			defer closeStore(store)

			report, err := deploy.Run(ctx, &deploy.RunInput{
				Strategy:   strategy,
				Tree:       tree,
				Differ:     tree,
				Store:      store,
				Exclusions: exclusions,
				Logger:     logger,
				DryRun:     v.GetBool(flagDryRun),
			})
			if err != nil {
				fields := map[string]interface{}{}
				if report != nil {
					fields = report.Fields()
				}
				fields["destination"] = store.Address()
				fields["err"] = err.Error()
				if errors.Is(err, deploy.ErrNoRemoteRevision) {
					fields["hint"] = "use --strategy full or --strategy auto for the first deploy"
				}
				_ = logger.Log("Error deploying", fields)
				closeStore(store)
				os.Exit(1)
			}

			_ = logger.Log("Done deploying", report.Fields())

			return nil
		},
	}
	initDeployCommandFlags(deployCommand.Flags())

	statusCommand := &cobra.Command{
		Use:                   `status [flags] [DESTINATION]`,
		DisableFlagsInUseLine: true,
		Short:                 "status",
		Long:                  "show the local revision, the revision deployed to the destination, and whether a deploy is needed",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			rc, err := initRepositoryContext(cmd, args)
			if err != nil {
				return err
			}
			v := rc.viper

			if errConfig := checkStoreConfig(v, args); errConfig != nil {
				return errConfig
			}

			logger, err := initLogger(v)
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			destination := v.GetString(keyDestination)

			store, err := InitStore(ctx, &InitStoreInput{
				Viper:       v,
				Destination: destination,
				Logger:      logger,
			})
			if err != nil {
				return fmt.Errorf("error initializing destination %q: %w", destination, err)
			}
			defer closeStore(store)

			status, err := readStatus(ctx, store, func() (string, error) {
				tree, err := git.NewTree(&git.TreeInput{
					Repository: rc.repo,
					Revision:   v.GetString(flagRevision),
					Path:       v.GetString(flagPath),
				})
				if err != nil {
					return "", fmt.Errorf("error reading repository %q: %w", rc.root, err)
				}
				return tree.Revision(), nil
			})
			if err != nil {
				return err
			}

			status.Print(os.Stdout)

			return nil
		},
	}
	initStoreCommandFlags(statusCommand.Flags())

	configCommand := &cobra.Command{
		Use:                   `config [flags] [DESTINATION]`,
		DisableFlagsInUseLine: true,
		Short:                 "show the effective configuration",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := initRepositoryContext(cmd, args)
			if err != nil {
				return err
			}
			settings := rc.viper.AllSettings()
			for _, secret := range []string{flagAWSSecretAccessKey, flagAWSSessionToken, flagSFTPPassword, flagSFTPPassphrase} {
				if value, ok := settings[secret]; ok && value != "" {
					settings[secret] = "********"
				}
			}
			b, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}
			fmt.Print(string(b))
			return nil
		},
	}
	initDeployCommandFlags(configCommand.Flags())

	schemesCommand := &cobra.Command{
		Use:                   `schemes`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported schemes",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("file")
			fmt.Println("s3")
			fmt.Println("sftp")
			return nil
		},
	}

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(GitDeployVersion)
			return nil
		},
	}

	rootCommand.AddCommand(layoutsCommand, deployCommand, statusCommand, configCommand, schemesCommand, versionCommand)

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gitdeploy: "+err.Error())
		fmt.Fprintln(os.Stderr, "Try \"gitdeploy --help\" for more information.")
		os.Exit(1)
	}
}
