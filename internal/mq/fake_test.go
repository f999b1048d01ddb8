package mq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// broker — брокер в памяти: очереди, неподтверждённые доставки и подписчики.
type broker struct {
	mu        sync.Mutex
	queues    map[string][][]byte
	declared  map[string]int
	unacked   map[uint64]pending
	consumers map[string]*consumer
	published []amqp.Publishing
	rejected  [][]byte
	prefetch  int
	nextTag   uint64
}

type pending struct {
	queue string
	body  []byte
	ch    *fakeChannel
}

type consumer struct {
	tag        string
	queue      string
	ch         *fakeChannel
	deliveries chan amqp.Delivery
}

func newBroker() *broker {
	return &broker{
		queues:    make(map[string][][]byte),
		declared:  make(map[string]int),
		unacked:   make(map[uint64]pending),
		consumers: make(map[string]*consumer),
	}
}

func (b *broker) enqueue(queue string, body []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enqueueLocked(queue, body)
}

func (b *broker) enqueueLocked(queue string, body []byte) {
	for _, c := range b.consumers {
		if c.queue == queue {
			b.deliverLocked(c, body)
			return
		}
	}
	b.queues[queue] = append(b.queues[queue], body)
}

func (b *broker) deliverLocked(c *consumer, body []byte) {
	b.nextTag++
	b.unacked[b.nextTag] = pending{queue: c.queue, body: body, ch: c.ch}
	c.deliveries <- amqp.Delivery{DeliveryTag: b.nextTag, Body: body}
}

func (b *broker) depth(queue string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queues[queue])
}

func (b *broker) rejectedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rejected)
}

func (b *broker) prefetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prefetch
}

func (b *broker) unackedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.unacked)
}

// dialer — фабрика соединений к broker со счётчиком вызовов Dial.
type dialer struct {
	b *broker

	mu    sync.Mutex
	dials int
	err   error
	conns []*fakeConn
}

func (d *dialer) Dial(string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dials++
	if d.err != nil {
		return nil, d.err
	}
	c := &fakeConn{b: d.b}
	d.conns = append(d.conns, c)
	return c, nil
}

func (d *dialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *dialer) last() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[len(d.conns)-1]
}

type fakeConn struct {
	b *broker

	mu       sync.Mutex
	closed   bool
	channels []*fakeChannel
}

func (c *fakeConn) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, amqp.ErrClosed
	}
	ch := &fakeChannel{b: c.b}
	c.channels = append(c.channels, ch)
	return ch, nil
}

func (c *fakeConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	chans := c.channels
	c.closed = true
	c.mu.Unlock()

	for _, ch := range chans {
		_ = ch.Close()
	}
	return nil
}

func (c *fakeConn) channelCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channels)
}

type fakeChannel struct {
	b *broker

	mu     sync.Mutex
	closed bool
}

func (ch *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable || autoDelete || exclusive || noWait {
		return amqp.Queue{}, errors.New("unexpected queue properties")
	}

	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()
	ch.b.declared[name]++
	return amqp.Queue{Name: name, Messages: len(ch.b.queues[name])}, nil
}

func (ch *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if exchange != "" {
		return errors.New("only the default exchange is supported")
	}

	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()
	ch.b.published = append(ch.b.published, msg)
	ch.b.enqueueLocked(key, msg.Body)
	return nil
}

func (ch *fakeChannel) Get(queue string, autoAck bool) (amqp.Delivery, bool, error) {
	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()

	q := ch.b.queues[queue]
	if len(q) == 0 {
		return amqp.Delivery{}, false, nil
	}
	body := q[0]
	ch.b.queues[queue] = q[1:]

	ch.b.nextTag++
	if !autoAck {
		ch.b.unacked[ch.b.nextTag] = pending{queue: queue, body: body, ch: ch}
	}
	return amqp.Delivery{DeliveryTag: ch.b.nextTag, Body: body}, true, nil
}

func (ch *fakeChannel) Consume(queue, tag string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()

	c := &consumer{tag: tag, queue: queue, ch: ch, deliveries: make(chan amqp.Delivery, 64)}
	ch.b.consumers[tag] = c

	backlog := ch.b.queues[queue]
	ch.b.queues[queue] = nil
	for _, body := range backlog {
		ch.b.deliverLocked(c, body)
	}
	return c.deliveries, nil
}

func (ch *fakeChannel) Cancel(tag string, _ bool) error {
	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()

	if c, ok := ch.b.consumers[tag]; ok {
		delete(ch.b.consumers, tag)
		close(c.deliveries)
	}
	return nil
}

func (ch *fakeChannel) Ack(tag uint64, _ bool) error {
	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()

	if _, ok := ch.b.unacked[tag]; !ok {
		return errors.New("unknown delivery tag")
	}
	delete(ch.b.unacked, tag)
	return nil
}

func (ch *fakeChannel) Qos(prefetchCount, _ int, _ bool) error {
	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()
	ch.b.prefetch = prefetchCount
	return nil
}

// Nack с requeue возвращает сообщение в голову очереди, без requeue
// откладывает его в rejected (аналог dead-letter).
func (ch *fakeChannel) Nack(tag uint64, _, requeue bool) error {
	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()

	p, ok := ch.b.unacked[tag]
	if !ok {
		return errors.New("unknown delivery tag")
	}
	delete(ch.b.unacked, tag)
	if requeue {
		ch.b.queues[p.queue] = append([][]byte{p.body}, ch.b.queues[p.queue]...)
	} else {
		ch.b.rejected = append(ch.b.rejected, p.body)
	}
	return nil
}

func (ch *fakeChannel) IsClosed() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.closed
}

// Close закрывает канал: подписки канала завершаются, неподтверждённые
// сообщения возвращаются в голову очереди.
func (ch *fakeChannel) Close() error {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return nil
	}
	ch.closed = true
	ch.mu.Unlock()

	ch.b.mu.Lock()
	defer ch.b.mu.Unlock()

	for tag, c := range ch.b.consumers {
		if c.ch == ch {
			delete(ch.b.consumers, tag)
			close(c.deliveries)
		}
	}
	for tag, p := range ch.b.unacked {
		if p.ch == ch {
			delete(ch.b.unacked, tag)
			ch.b.queues[p.queue] = append([][]byte{p.body}, ch.b.queues[p.queue]...)
		}
	}
	return nil
}

func testDetails() *ConnectionDetails {
	return &ConnectionDetails{Host: "rabbit", Port: 5672, Username: "guest", Password: "guest"}
}

func newTestConnection(t *testing.T) (*Connection, *dialer, *broker) {
	t.Helper()
	b := newBroker()
	d := &dialer{b: b}
	conn, err := NewConnection(testDetails(), d, nil)
	if err != nil {
		t.Fatalf("NewConnection: %v", err)
	}
	t.Cleanup(func() { conn.Dispose() })
	return conn, d, b
}

func newTestMessenger(t *testing.T) (*Messenger, *dialer, *broker) {
	t.Helper()
	conn, d, b := newTestConnection(t)
	m, err := NewMessenger(conn, nil, nil)
	if err != nil {
		t.Fatalf("NewMessenger: %v", err)
	}
	return m, d, b
}

// eventually ждёт выполнения условия не дольше секунды.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
