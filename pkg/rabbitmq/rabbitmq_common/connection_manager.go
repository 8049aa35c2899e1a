package rabbitmq_common

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultReconnectInterval = 10 * time.Second

// ConnectionManager держит одно соединение RabbitMQ на процесс
// и раздает каналы поверх него. Создается явно в композиционном корне.
type ConnectionManager struct {
	cfg               Config
	connection        *amqp.Connection
	mutex             sync.RWMutex
	reconnectInterval time.Duration
	done              chan struct{}
	closeOnce         sync.Once

	Logger Logger
}

// NewConnectionManager устанавливает первое соединение и запускает фоновое переподключение
func NewConnectionManager(cfg Config, logger Logger) (*ConnectionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("connection manager: %w", err)
	}
	if logger == nil {
		logger = NewNoopLogger()
	}

	m := &ConnectionManager{
		cfg:               cfg,
		reconnectInterval: defaultReconnectInterval,
		done:              make(chan struct{}),
		Logger:            logger,
	}

	if _, err := m.getConnection(); err != nil {
		logger.Error(err, "Initial connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}

	go m.watch()

	return m, nil
}

func (m *ConnectionManager) getConnection() (*amqp.Connection, error) {
	m.mutex.RLock()
	if m.connection != nil && !m.connection.IsClosed() {
		conn := m.connection
		m.mutex.RUnlock()
		return conn, nil
	}
	m.mutex.RUnlock()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// другой поток мог переподключиться, пока мы ждали блокировку
	if m.connection != nil && !m.connection.IsClosed() {
		return m.connection, nil
	}

	m.Logger.Debug("ConnectionManager: connecting")
	conn, err := amqp.Dial(m.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	m.connection = conn
	m.Logger.Debug("ConnectionManager: connected")
	return conn, nil
}

// GetChannel открывает новый канал на общем соединении
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := m.getConnection()
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

func (m *ConnectionManager) watch() {
	ticker := time.NewTicker(m.reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
		}

		m.mutex.RLock()
		healthy := m.connection == nil || !m.connection.IsClosed()
		m.mutex.RUnlock()
		if healthy {
			continue
		}

		m.Logger.Warn("ConnectionManager: connection lost, reconnecting")
		if _, err := m.getConnection(); err != nil {
			m.Logger.Error(err, "ConnectionManager: reconnect failed")
		}
	}
}

// Close останавливает переподключение и закрывает соединение
func (m *ConnectionManager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.connection == nil || m.connection.IsClosed() {
		m.Logger.Debug("ConnectionManager: connection already closed")
		return nil
	}

	if err := m.connection.Close(); err != nil {
		m.Logger.Error(err, "ConnectionManager: failed to close connection")
		return err
	}
	m.Logger.Debug("ConnectionManager: connection closed")
	return nil
}
