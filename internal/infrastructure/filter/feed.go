package filter

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-feevalidator/internal/core/domain"
)

const defaultReconnectInterval = 5 * time.Second

// FeedProvider keeps the latest filter received from a websocket feed. Until
// the first message is received no override is in effect.
type FeedProvider struct {
	url               string
	reconnectInterval time.Duration

	conn     *websocket.Conn
	connLock *sync.Mutex
	lock     *sync.RWMutex
	latest   Filter

	quitChan chan struct{}
	stopOnce *sync.Once
}

// NewFeedProvider connects to the given websocket url.
func NewFeedProvider(url string) (*FeedProvider, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, err
	}

	return &FeedProvider{
		url:               url,
		reconnectInterval: defaultReconnectInterval,
		conn:              conn,
		connLock:          &sync.Mutex{},
		lock:              &sync.RWMutex{},
		quitChan:          make(chan struct{}),
		stopOnce:          &sync.Once{},
	}, nil
}

// SetReconnectInterval sets the time to wait between reconnection attempts.
func (p *FeedProvider) SetReconnectInterval(interval time.Duration) {
	if interval > 0 {
		p.reconnectInterval = interval
	}
}

func (p *FeedProvider) CurrentOverride(
	role domain.Role, currency domain.FeeCurrency,
) int64 {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.latest.Rate(role, currency)
}

// Start reads filters from the feed until Stop is called. If the connection
// drops, it's re-established every reconnect interval.
func (p *FeedProvider) Start() error {
	for {
		err := p.readFilters()
		if p.isStopped() {
			return nil
		}
		log.WithError(err).Warn(
			"filter feed connection dropped unexpectedly. Trying to reconnect...",
		)

		for {
			select {
			case <-p.quitChan:
				return nil
			case <-time.After(p.reconnectInterval):
			}

			conn, err := connect(p.url)
			if err != nil {
				log.WithError(err).Debug("failed to reconnect to filter feed")
				continue
			}
			if !p.setConn(conn) {
				return nil
			}
			log.Debug("filter feed connection re-established")
			break
		}
	}
}

// Stop closes the connection and makes Start return.
func (p *FeedProvider) Stop() {
	p.stopOnce.Do(func() {
		close(p.quitChan)

		p.connLock.Lock()
		defer p.connLock.Unlock()
		if p.conn != nil {
			//nolint
			p.conn.Close()
		}
	})
}

func (p *FeedProvider) readFilters() error {
	p.connLock.Lock()
	conn := p.conn
	p.connLock.Unlock()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		filter, err := parseFilter(message)
		if err != nil {
			log.WithError(err).Debug("skipping malformed filter message")
			continue
		}

		p.lock.Lock()
		p.latest = *filter
		p.lock.Unlock()
		log.Debugf("received new filter %+v", *filter)
	}
}

// setConn replaces the connection unless the provider has been stopped in
// the meantime.
func (p *FeedProvider) setConn(conn *websocket.Conn) bool {
	p.connLock.Lock()
	defer p.connLock.Unlock()

	if p.isStopped() {
		//nolint
		conn.Close()
		return false
	}
	p.conn = conn
	return true
}

func (p *FeedProvider) isStopped() bool {
	select {
	case <-p.quitChan:
		return true
	default:
		return false
	}
}

func parseFilter(msg []byte) (*Filter, error) {
	var filter Filter
	if err := json.Unmarshal(msg, &filter); err != nil {
		return nil, err
	}
	return &filter, nil
}

func connect(url string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to filter feed: %w", err)
	}
	return conn, nil
}
