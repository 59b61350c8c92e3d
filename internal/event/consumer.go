package event

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const auditLogPath = "logs/audit.log"

// StartAuditConsumer consumes the security.audit queue and appends each
// event as a single line to logs/audit.log. It runs a reconnect loop with
// backoff and never returns under normal operation; malformed messages are
// rejected without requeue so they cannot wedge the queue.
func StartAuditConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(BrokerURL())
		if err != nil {
			log.Printf("audit-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(AuditQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(AuditQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for d := range deliveries {
		var ev AuditEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("audit-consumer: bad message: %v", err)
			_ = d.Reject(false)
			continue
		}
		if err := appendAuditLine(ev); err != nil {
			log.Printf("audit-consumer: write failed: %v", err)
			_ = d.Reject(true)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func appendAuditLine(ev AuditEvent) error {
	if err := os.MkdirAll(filepath.Dir(auditLogPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(auditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s kind=%s user=%d", ev.OccurredAt, ev.Kind, ev.UserID)
	if ev.ActorID != 0 {
		line += fmt.Sprintf(" actor=%d", ev.ActorID)
	}
	if ev.IP != "" {
		line += " ip=" + ev.IP
	}
	_, err = fmt.Fprintln(f, line)
	return err
}
