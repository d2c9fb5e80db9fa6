package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/usecases"
	"go.uber.org/zap"
)

// User. one websocket client of the navigation session
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

// readFix. next fix frame, nil for control frames
func (u *User) readFix() (*fixRequest, error) {
	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		u.io.Lock()
		defer u.io.Unlock()
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	// the frame payload must be consumed before the next frame header can be read
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	req := &fixRequest{}
	if err := json.Unmarshal(payload, req); err != nil {
		return nil, err
	}
	return req, nil
}

// HandleFix. reads one frame and forwards the fix to the navigation session
func (u *User) HandleFix() error {
	req, err := u.readFix()
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	if err := u.hub.validate.Struct(req); err != nil {
		return u.write(envelope{"error": map[string]string{
			"code":    http.StatusText(http.StatusBadRequest),
			"message": err.Error(),
		}})
	}
	u.hub.navigationService.UpdateFix(req.toFix())
	return nil
}

func (u *User) write(x interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(x); err != nil {
		return err
	}

	u.io.Lock()
	defer u.io.Unlock()
	return wsutil.WriteServerMessage(u.conn, ws.OpText, buf.Bytes())
}

// Hub. registered websocket users, every navigation event is pushed to all of them
type Hub struct {
	mu                sync.RWMutex
	seq               uint
	us                []*User
	ns                map[uint]*User
	navigationService NavigationService
	validate          *requestValidator
	log               *zap.Logger
	unsubscribe       func()
}

func NewHub(navigationService NavigationService, log *zap.Logger) *Hub {
	hub := &Hub{
		ns:                make(map[uint]*User),
		us:                make([]*User, 0),
		navigationService: navigationService,
		validate:          newRequestValidator(),
		log:               log,
	}
	hub.unsubscribe = navigationService.Subscribe(hub.Broadcast)
	return hub
}

func (h *Hub) Register(conn io.ReadWriteCloser) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)
	h.seq++
	h.mu.Unlock()

	_ = user.write(usecases.Event{Type: usecases.EVENT_SESSION_OPENED, Data: h.navigationService.GetSessionID()})
	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})
	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs

	user.conn.Close()
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

func (h *Hub) NumberOfUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}

// Broadcast. users whose write fails are removed
func (h *Hub) Broadcast(ev usecases.Event) {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		if err := user.write(ev); err != nil {
			h.log.Debug("drop websocket user", zap.Uint("user", user.id), zap.Error(err))
			h.Remove(user)
		}
	}
}

func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.RemoveAllUser()
}

// ServeWS. upgrades the request and reads fix frames until the client goes away
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if !isWebsocketUpgrade(r) {
		http.Error(w, "expected websocket upgrade", http.StatusBadRequest)
		return
	}
	conn, _, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		h.log.Info("upgrade error", zap.Error(err))
		return
	}
	h.log.Info("established websocket connection", zap.String("remote", r.RemoteAddr),
		zap.String("protocol", hs.Protocol))

	user := h.Register(conn)
	go func() {
		defer h.Remove(user)
		for {
			if err := user.HandleFix(); err != nil {
				h.log.Debug("websocket user disconnected", zap.Uint("user", user.id), zap.Error(err))
				return
			}
		}
	}()
}
