// Package share implements the short-lived capture pass of the Gistly share
// binary. It turns command-line inputs into queue attachments, hands them to
// the producer and exits; the main process picks the entries up later.
package share

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gistly-app/gistly/internal/config"
	"github.com/gistly-app/gistly/internal/flagx"
	"github.com/gistly-app/gistly/internal/logging"
	"github.com/gistly-app/gistly/internal/queue"
)

// ParseArgs extracts capture inputs from command-line arguments.
//
// Supported flags (repeatable where noted):
//
//	-u string      url to capture (repeatable)
//	-pdf string    path to a PDF file to capture (repeatable)
//	-text string   plain text to capture
//
// Other flags are owned by the config package and ignored here.
func ParseArgs(args []string) ([]queue.Attachment, error) {
	args = flagx.FilterArgs(args, []string{"-u", "-pdf", "-text"})

	var attachments []queue.Attachment

	fs := flag.NewFlagSet("share", flag.ContinueOnError)
	fs.Func("u", "url to capture (repeatable)", func(v string) error {
		attachments = append(attachments, queue.Attachment{Kind: queue.AttachmentURL, URL: v})
		return nil
	})
	fs.Func("pdf", "path to a PDF file to capture (repeatable)", func(v string) error {
		data, err := os.ReadFile(v)
		if err != nil {
			return err
		}
		attachments = append(attachments, queue.Attachment{
			Kind: queue.AttachmentPDF,
			Name: filepath.Base(v),
			Data: data,
		})
		return nil
	})
	fs.Func("text", "plain text to capture", func(v string) error {
		attachments = append(attachments, queue.Attachment{Kind: queue.AttachmentText, Text: v})
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return attachments, nil
}

// Run performs one capture pass over attachments and returns once the
// completion signal has fired. Individual attachment failures are logged by
// the producer and do not abort the pass.
func Run(ctx context.Context, cfg *config.Config, log logging.Logger, attachments []queue.Attachment) error {
	if len(attachments) == 0 {
		return fmt.Errorf("nothing to capture")
	}

	store, err := queue.OpenSQLiteStore(ctx, cfg.SharedDir)
	if err != nil {
		return err
	}
	defer store.Close()

	done := make(chan struct{})
	queue.NewProducer(store, log).Process(ctx, attachments, func() { close(done) })
	<-done

	log.Info(ctx, "capture pass complete", "attachments", len(attachments))
	return nil
}
