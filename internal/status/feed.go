package status

import (
	"context"
	"log"
	"net/http"
	"sync"

	"nhooyr.io/websocket"
)

// feed fans a line of text out to every currently-connected /live
// subscriber. Grounded on the accept/broadcast shape in the pack's
// websocket relay handlers (e.g. ehrlich-b-wingthing's relay package):
// one goroutine per connection reading until it errors, writes guarded
// by each connection's own mutex via nhooyr's Conn.
type feed struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

func newFeed() *feed {
	return &feed{subs: make(map[*websocket.Conn]struct{})}
}

func (f *feed) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("[STATUS] live feed accept: %v", err)
		return
	}
	defer conn.CloseNow()

	f.mu.Lock()
	f.subs[conn] = struct{}{}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		delete(f.subs, conn)
		f.mu.Unlock()
	}()

	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func (f *feed) publish(line string) {
	f.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(f.subs))
	for c := range f.subs {
		conns = append(conns, c)
	}
	f.mu.Unlock()

	ctx := context.Background()
	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
			log.Printf("[STATUS] live feed write: %v", err)
		}
	}
}
