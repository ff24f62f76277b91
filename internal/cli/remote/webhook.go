package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/notifier"
)

// WebhookParseCmd decodes a payload received from n8n, read from a file or
// from stdin
type WebhookParseCmd struct {
	File string `arg:"" optional:"" help:"Payload file (stdin when omitted)." type:"existingfile"`

	in io.Reader `kong:"-"`
}

func (c *WebhookParseCmd) Run(ctx *cli.Context) error {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open payload: %w", err)
		}
		defer f.Close()
		in = f
	}

	p, err := notifier.ParseIncoming(in)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s received at %s\n", p.Event, p.Timestamp)
	if p.Event == constants.EventNotificationSend {
		var msg struct {
			Title   string `json:"title"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(p.Data, &msg); err == nil && msg.Message != "" {
			if msg.Title != "" {
				fmt.Printf("  %s\n", msg.Title)
			}
			fmt.Printf("  %s\n", msg.Message)
			return nil
		}
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, p.Data, "  ", "  "); err != nil {
		fmt.Printf("  %s\n", p.Data)
		return nil
	}
	fmt.Printf("  %s\n", pretty.String())
	return nil
}

// WebhookStatusCmd lists which outbound events have a URL
type WebhookStatusCmd struct{}

func (c *WebhookStatusCmd) Run(ctx *cli.Context) error {
	for _, event := range notifier.OutboundEvents {
		if ctx.Notifier.Configured(event) {
			fmt.Printf("✓ %s\n", event)
		} else {
			fmt.Printf("⊘ %s (not configured)\n", event)
		}
	}
	return nil
}
