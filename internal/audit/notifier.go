package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mushxhid/Accounting-sub000/internal/logger"
)

// Notifier appends audit events to the per-org log and relays them by email.
// Both paths are best-effort: failures are logged and swallowed so the
// originating user action is never blocked.
type Notifier struct {
	Pool       *pgxpool.Pool
	Mailer     *Mailer
	Recipients []string
}

func NewNotifier(pool *pgxpool.Pool, mailer *Mailer, recipients []string) *Notifier {
	return &Notifier{Pool: pool, Mailer: mailer, Recipients: recipients}
}

// Record fires the event asynchronously and returns immediately.
func (n *Notifier) Record(orgID string, e Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := n.append(ctx, orgID, e); err != nil {
			logger.Log.WithError(err).WithField("action", e.Action).Warn("failed to append audit log")
		}
		if err := n.email(e); err != nil {
			logger.Log.WithError(err).WithField("action", e.Action).Warn("failed to send audit email")
		}
	}()
}

func (n *Notifier) append(ctx context.Context, orgID string, e Event) error {
	detail, err := e.detailJSON()
	if err != nil {
		return err
	}

	var metadata interface{}
	if len(detail) > 0 {
		metadata = json.RawMessage(detail)
	}

	_, err = n.Pool.Exec(ctx, `
		INSERT INTO audit_logs (org_id, action, entity, actor_id, actor_email, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, orgID, string(e.Action), e.Entity, e.Actor.ID, e.Actor.Email, metadata, e.OccurredAt)
	return err
}

func (n *Notifier) email(e Event) error {
	if n.Mailer == nil || len(n.Recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("[Accounting] %s %s by %s", e.Action, e.Entity, e.Actor.Email)
	return n.Mailer.Send(n.Recipients, subject, renderHTML(e))
}

func renderHTML(e Event) string {
	detail, _ := e.detailJSON()
	return fmt.Sprintf(`
		<h3>%s %s</h3>
		<p><b>By:</b> %s<br>
		<b>At:</b> %s</p>
		<pre>%s</pre>`,
		html.EscapeString(string(e.Action)),
		html.EscapeString(e.Entity),
		html.EscapeString(e.Actor.Email),
		e.OccurredAt.Format(time.RFC3339),
		html.EscapeString(string(detail)),
	)
}
