package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/mowops-settlement/internal/event"
	"github.com/nurpe/mowops-settlement/internal/model"
)

type Message struct {
	UserID uuid.UUID
	Email  string
	Kind   model.NotificationKind
	Title  string
	Body   string
}

type Store interface {
	Create(ctx context.Context, notification model.Notification) error
}

type Publisher interface {
	Publish(ctx context.Context, event event.NotificationEvent) error
}

type Mailer interface {
	Send(to, subject, body string) error
}

// Notifier fans a message out to the in-app notification table, the event
// queue, and email. Every leg is best-effort: failures are logged and
// swallowed, and legs without a configured backend are skipped. Notify never
// returns an error.
type Notifier struct {
	store     Store
	publisher Publisher
	mailer    Mailer
	log       zerolog.Logger
}

func NewNotifier(store Store, publisher Publisher, mailer Mailer, log zerolog.Logger) *Notifier {
	return &Notifier{store: store, publisher: publisher, mailer: mailer, log: log}
}

func (n *Notifier) Notify(ctx context.Context, msg Message) {
	if n.store != nil {
		err := n.store.Create(ctx, model.Notification{
			UserID: msg.UserID,
			Kind:   msg.Kind,
			Title:  msg.Title,
			Body:   msg.Body,
		})
		if err != nil {
			n.log.Warn().Err(err).Str("user_id", msg.UserID.String()).Msg("notification insert failed")
		}
	}

	if n.publisher != nil {
		err := n.publisher.Publish(ctx, event.NotificationEvent{
			UserID:    msg.UserID,
			Kind:      string(msg.Kind),
			Title:     msg.Title,
			Body:      msg.Body,
			EmittedAt: time.Now().UTC(),
		})
		if err != nil {
			n.log.Warn().Err(err).Str("user_id", msg.UserID.String()).Msg("notification event publish failed")
		}
	}

	if n.mailer != nil && msg.Email != "" {
		if err := n.mailer.Send(msg.Email, msg.Title, msg.Body); err != nil {
			n.log.Warn().Err(err).Str("email", msg.Email).Msg("notification email failed")
		}
	}
}
