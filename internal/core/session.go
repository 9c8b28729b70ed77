// ABOUTME: Chat session with explicit lifecycle over the knowledge store
// ABOUTME: Streams persona answers as fragments; absent store is not an error
package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/llm"
	"github.com/atelier-iris/companion/internal/storage"
)

// Fragment is one piece of a streamed answer. A Fragment with Err set is
// terminal; the channel closes after it.
type Fragment struct {
	Text string
	Err  error
}

// ChatStream yields answer text deltas; Recv returns io.EOF when done.
type ChatStream interface {
	Recv() (string, error)
	Close() error
}

// ChatClient starts a streamed completion for an assembled prompt.
type ChatClient interface {
	StreamChat(ctx context.Context, prompt string) (ChatStream, error)
}

// ChatClientFrom adapts the OpenAI-compatible client to the session's
// ChatClient interface.
func ChatClientFrom(c *llm.Client) ChatClient {
	return openaiChat{client: c}
}

type openaiChat struct {
	client *llm.Client
}

func (a openaiChat) StreamChat(ctx context.Context, prompt string) (ChatStream, error) {
	stream, err := a.client.StreamChat(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// Session holds an open handle on the knowledge store for the duration of
// a conversation. Creating a session with no store present succeeds; every
// question then gets the in-persona "archive is empty" answer until Reload
// finds a store.
type Session struct {
	cfg      *config.Config
	chat     ChatClient
	embedder storage.Embedder
	index    *storage.Index
}

func NewSession(cfg *config.Config, chat ChatClient, embedder storage.Embedder) (*Session, error) {
	s := &Session{cfg: cfg, chat: chat, embedder: embedder}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// HasKnowledge reports whether a store is currently open.
func (s *Session) HasKnowledge() bool {
	return s.index != nil
}

// Reload drops the current store handle and re-opens the store if one
// exists, making freshly ingested documents visible.
func (s *Session) Reload() error {
	if s.index != nil {
		s.index.Close()
		s.index = nil
	}
	if !storage.Exists(s.cfg.StoreDir) {
		return nil
	}
	ix, err := storage.Open(s.cfg.StoreDir, s.embedder, s.cfg.EmbedBatch)
	if err != nil {
		return fmt.Errorf("opening knowledge store: %w", err)
	}
	s.index = ix
	return nil
}

// VectorCount returns the number of stored vectors, zero when no store
// is open.
func (s *Session) VectorCount() (int, error) {
	if s.index == nil {
		return 0, nil
	}
	return s.index.Count()
}

// Close releases the store handle.
func (s *Session) Close() error {
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

// Chat answers one question. Fragments arrive in model order on the
// returned channel, which is always closed. Cancel the context to abandon
// an answer midway; the network stream is released either way.
func (s *Session) Chat(ctx context.Context, query string) <-chan Fragment {
	out := make(chan Fragment, 8)

	if s.index == nil {
		go func() {
			defer close(out)
			send(ctx, out, Fragment{Text: noKnowledgeMessage})
		}()
		return out
	}

	go func() {
		defer close(out)

		results, err := NewRetriever(s.index, s.cfg.TopK).Retrieve(ctx, query)
		if err != nil {
			send(ctx, out, Fragment{Err: fmt.Errorf("retrieving context: %w", err)})
			return
		}

		stream, err := s.chat.StreamChat(ctx, AssemblePrompt(results, query))
		if err != nil {
			send(ctx, out, Fragment{Err: fmt.Errorf("starting answer stream: %w", err)})
			return
		}
		defer stream.Close()

		for {
			delta, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				send(ctx, out, Fragment{Err: fmt.Errorf("reading answer stream: %w", err)})
				return
			}
			if !send(ctx, out, Fragment{Text: delta}) {
				return
			}
		}
	}()

	return out
}

func send(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
