package deliver

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newsradar-io/newsradar/internal/model"
	"github.com/wneessen/go-mail"
	"golang.org/x/time/rate"
)

// Agent transmits a rendered digest over SMTP, walking the configured
// transport strategies in order until one delivers. Every attempt
// builds and sends a fresh message, so a failed attempt can never leak
// into a duplicate or half-sent mail.
type Agent struct {
	config  *model.SMTPConfig
	verbose bool
	limiter *rate.Limiter

	// send is swapped out in tests to simulate transport outcomes.
	send func(ctx context.Context, strategy Strategy, digest *model.Digest) error
}

// NewAgent creates a delivery agent for the given account
func NewAgent(cfg *model.SMTPConfig, verbose bool) *Agent {
	a := &Agent{
		config:  cfg,
		verbose: verbose,
		limiter: rate.NewLimiter(rate.Every(cfg.DialInterval), 1),
	}
	a.send = a.dialAndSend
	return a
}

// Failure records why one strategy did not deliver
type Failure struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

// Result summarizes a delivery run
type Result struct {
	Delivered bool      `json:"delivered"`
	Strategy  string    `json:"strategy,omitempty"` // Winning strategy when Delivered
	Failures  []Failure `json:"failures,omitempty"` // One entry per failed attempt, in order
}

// Deliver sends the digest. Incomplete account settings abort before
// any connection is opened. A nil error with Delivered false means
// every strategy failed; Failures holds one reason per attempt, in
// attempt order.
func (a *Agent) Deliver(ctx context.Context, digest *model.Digest) (*Result, error) {
	if missing := a.config.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("delivery not configured: missing %s", strings.Join(missing, ", "))
	}

	strategies, err := buildStrategies(a.config)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, strategy := range strategies {
		// Pace retries so a struggling server is not hammered.
		if err := a.limiter.Wait(ctx); err != nil {
			result.Failures = append(result.Failures, Failure{Strategy: strategy.Name, Reason: err.Error()})
			break
		}

		if a.verbose {
			fmt.Fprintf(os.Stderr, "→ trying %s (%s:%d)\n", strategy.Name, a.config.Host, strategy.Port)
		}

		if err := a.send(ctx, strategy, digest); err != nil {
			result.Failures = append(result.Failures, Failure{Strategy: strategy.Name, Reason: err.Error()})
			continue
		}

		result.Delivered = true
		result.Strategy = strategy.Name
		return result, nil
	}

	return result, nil
}

// dialAndSend performs one complete attempt: fresh message, fresh
// client, bounded by the per-attempt timeout from connect through send.
func (a *Agent) dialAndSend(ctx context.Context, strategy Strategy, digest *model.Digest) error {
	msg, err := a.buildMessage(digest)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	timeout := a.config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(strategy.Port),
		mail.WithTimeout(timeout),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(a.config.Sender),
		mail.WithPassword(a.config.Password),
	}
	if strategy.Implicit {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(strategy.Policy))
	}

	client, err := mail.NewClient(a.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return client.DialAndSendWithContext(attemptCtx, msg)
}

// buildMessage assembles the MIME message: plain-text body with an HTML
// alternative, so every client can display something.
func (a *Agent) buildMessage(digest *model.Digest) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.FromFormat("AI News Radar", a.config.Sender); err != nil {
		return nil, fmt.Errorf("sender %q: %w", a.config.Sender, err)
	}
	if err := msg.To(a.config.Recipients()...); err != nil {
		return nil, fmt.Errorf("recipient %q: %w", a.config.Recipient, err)
	}

	msg.Subject(digest.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, digest.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, digest.HTML)

	return msg, nil
}
