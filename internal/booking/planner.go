package booking

import (
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/internal/synccache"
)

// Booking is a transient snapshot used only to render the pre-filled message
// or a confirmation summary. Never persisted.
type Booking struct {
	Services []domain.BarberService `json:"services"`
	Name     string                 `json:"name"`
	Phone    string                 `json:"phone"`
	Date     string                 `json:"date"`
	Time     string                 `json:"time"`
}

// Planner owns the booking snapshot. It subscribes to profile changes so the
// name and phone fields track the signed-in customer.
type Planner struct {
	mu      sync.Mutex
	booking Booking
}

func NewPlanner(bus EventBus.Bus) *Planner {
	p := &Planner{}
	if err := bus.Subscribe(synccache.TopicProfile, p.onProfileChanged); err != nil {
		zap.L().Warn("booking: profile subscription failed", zap.Error(err))
	}
	return p
}

func (p *Planner) onProfileChanged(profile domain.Profile) {
	p.mu.Lock()
	p.booking.Name = profile.Name
	p.booking.Phone = profile.Phone
	p.mu.Unlock()
}

// Snapshot returns the current booking with the given cart contents attached.
func (p *Planner) Snapshot(items []domain.BarberService) Booking {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.booking
	b.Services = items
	return b
}

// SetSchedule fills in the requested date and time.
func (p *Planner) SetSchedule(date, tm string) {
	p.mu.Lock()
	p.booking.Date = date
	p.booking.Time = tm
	p.mu.Unlock()
}

// Finalize renders the cart into a WhatsApp deep link for the shop's contact
// handle and hands it to the sink. Empty carts are rejected before any link
// is built.
func (p *Planner) Finalize(cart *Cart, whatsapp string, sink LinkSink) (string, error) {
	items := cart.Items()
	if len(items) == 0 {
		return "", errors.New("cart is empty")
	}
	b := p.Snapshot(items)
	link := Link(whatsapp, CartMessage(b.Name, items))
	if err := sink.Open(link); err != nil {
		return "", errors.Wrap(err, "open whatsapp link")
	}
	return link, nil
}

// LogSink logs the deep link; used where no interactive opener exists.
type LogSink struct{}

func (LogSink) Open(url string) error {
	zap.L().Info("booking: whatsapp link ready", zap.String("url", url))
	return nil
}
