package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"

	"github.com/hibiken/asynq"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) opt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
}

// Enqueuer is the producer side used by services.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload any) error
}

type Client struct {
	client   *asynq.Client
	maxRetry int
}

func NewClient(cfg RedisConfig, maxRetry int) *Client {
	return &Client{
		client:   asynq.NewClient(cfg.opt()),
		maxRetry: maxRetry,
	}
}

// Enqueue JSON-encodes payload and puts it on the default queue.
func (c *Client) Enqueue(ctx context.Context, taskType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", taskType, err)
	}

	task := asynq.NewTask(taskType, body)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(c.maxRetry),
		asynq.Queue(constants.QueueDefault),
	)
	if err != nil {
		logger.Error("Queue:Enqueue", "task", taskType, "error", err)
		return err
	}

	logger.Debug("Queue:Enqueue:Success", "task", taskType, "id", info.ID)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// HandlerFunc receives the raw JSON payload of a task.
type HandlerFunc func(ctx context.Context, payload []byte) error

type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewServer(cfg RedisConfig, concurrency int) *Server {
	srv := asynq.NewServer(cfg.opt(), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{constants.QueueDefault: 1},
		Logger:      asynqLogger{},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Task:Failed", "task", task.Type(), "error", err)
		}),
	})
	return &Server{srv: srv, mux: asynq.NewServeMux()}
}

func (s *Server) Handle(taskType string, h HandlerFunc) {
	s.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		return h(ctx, t.Payload())
	})
}

// Start runs the worker pool in the background.
func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

// SkipRetry marks a handler error as permanent.
func SkipRetry(err error) error {
	return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
}

type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { logger.Debug(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...any)  { logger.Info(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...any)  { logger.Warn(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...any) { logger.Error(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...any) {
	logger.Error(fmt.Sprint(args...))
	logger.Sync()
	os.Exit(1)
}
