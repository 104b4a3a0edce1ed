package deliver

import (
	"fmt"

	"github.com/newsradar-io/newsradar/internal/model"
	"github.com/wneessen/go-mail"
)

// Strategy names accepted in smtp.strategies.
const (
	StrategySTARTTLS      = "starttls"
	StrategyImplicitTLS   = "implicit-tls"
	StrategyOpportunistic = "opportunistic"
)

// implicitTLSPort is fixed: SMTPS has its own well-known port and does
// not follow the configured submission port.
const implicitTLSPort = 465

// Strategy describes one way of reaching the mail server. Strategies
// are data, not behavior: the agent feeds each one to the client
// builder in configured order until a delivery succeeds.
type Strategy struct {
	Name     string
	Port     int
	Implicit bool           // TLS from the first byte (SMTPS)
	Policy   mail.TLSPolicy // Ignored when Implicit is set
}

// buildStrategies resolves configured strategy names into connection
// parameters. The submission port override applies to the STARTTLS and
// opportunistic strategies only.
func buildStrategies(cfg *model.SMTPConfig) ([]Strategy, error) {
	port := cfg.Port
	if port <= 0 {
		port = 587
	}

	var out []Strategy
	for _, name := range cfg.Strategies {
		switch name {
		case StrategySTARTTLS:
			out = append(out, Strategy{Name: name, Port: port, Policy: mail.TLSMandatory})
		case StrategyImplicitTLS:
			out = append(out, Strategy{Name: name, Port: implicitTLSPort, Implicit: true})
		case StrategyOpportunistic:
			// Last resort: upgrade to TLS when offered, send anyway
			// when not.
			out = append(out, Strategy{Name: name, Port: port, Policy: mail.TLSOpportunistic})
		default:
			return nil, fmt.Errorf("unknown delivery strategy %q", name)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no delivery strategies configured")
	}
	return out, nil
}
