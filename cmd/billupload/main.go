// Command billupload uploads bill screenshots to the storefront and
// records a bill for each one.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	galleryapp "github.com/aishop/storefront/internal/application/gallery"
	"github.com/aishop/storefront/internal/client"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

const (
	envURL      = "STOREFRONT_URL"
	envPassword = "STOREFRONT_ADMIN_PASSWORD"
	envToken    = "STOREFRONT_TOKEN"
)

type options struct {
	url         string
	password    string
	token       string
	description string
	timeout     time.Duration
	recursive   bool
	files       []string
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	files, err := collectFiles(opts.files, opts.recursive)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "error: no image files to upload")
		return 2
	}

	c, err := client.New(opts.url, client.WithHTTPClient(newHTTPClient(opts.timeout)))
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	if opts.token != "" {
		c.SetToken(opts.token)
	} else {
		if _, err := c.Login(ctx, opts.password); err != nil {
			fmt.Fprintln(stderr, "login failed:", err)
			return 1
		}
	}

	uploader := galleryapp.NewBulkUploader(c, c, galleryapp.WithObserver(progressPrinter(stdout, len(files))))
	items := uploader.Run(ctx, files, opts.description)

	succeeded, failed := galleryapp.Summary(items)
	fmt.Fprintf(stdout, "\n%d uploaded, %d failed\n", succeeded, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("billupload", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVarP(&opts.url, "url", "u", os.Getenv(envURL), "storefront base URL (env "+envURL+")")
	fs.StringVarP(&opts.password, "password", "p", "", "admin password (env "+envPassword+")")
	fs.StringVar(&opts.token, "token", os.Getenv(envToken), "admin token; skips login (env "+envToken+")")
	fs.StringVarP(&opts.description, "description", "d", "", "description stored on every bill")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-request timeout")
	fs.BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: billupload [flags] <file|dir>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.password == "" {
		opts.password = os.Getenv(envPassword)
	}
	if opts.url == "" {
		return nil, fmt.Errorf("--url or %s is required", envURL)
	}
	if opts.token == "" && opts.password == "" {
		return nil, fmt.Errorf("--password or %s is required", envPassword)
	}
	opts.files = fs.Args()
	return opts, nil
}

func progressPrinter(w io.Writer, total int) galleryapp.UploadObserver {
	return func(i int, item galleryapp.UploadItem) {
		prefix := fmt.Sprintf("[%d/%d] %s", i+1, total, item.File)
		switch item.Status {
		case galleryapp.StatusUploading:
			fmt.Fprintf(w, "%s: uploading\n", prefix)
		case galleryapp.StatusSuccess:
			fmt.Fprintf(w, "%s: ok %s\n", prefix, item.URL)
		case galleryapp.StatusError:
			fmt.Fprintf(w, "%s: failed: %s\n", prefix, item.Error)
		}
	}
}
