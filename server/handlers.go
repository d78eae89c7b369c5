package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/linanwx/webshell/logger"
)

const exitCommand = "exit"

func (s *Server) handleShells(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.prober.Available()); err != nil {
		logger.Warn("write shells response failed", "err", err)
	}
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	output := s.execute(r.Context(), s.shell, string(body))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, output)
}

// handleSocket runs one command per text frame and answers each with a
// single text frame holding the output.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	sh := s.shellFor(mux.Vars(r)["shell"])
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(-1)

	log := logger.With("conn", uuid.NewString(), "shell", sh.Name)
	log.Info("socket opened", "remote", r.RemoteAddr)

	ctx := r.Context()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Info("socket closed")
			default:
				log.Warn("socket read failed", "err", err)
			}
			return
		}
		if typ != websocket.MessageText {
			log.Error("received non-text message", "bytes", len(data))
			continue
		}

		command := string(data)
		if command == exitCommand {
			log.Info("exit command shell")
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}

		log.Info("> " + command)
		output := s.execute(ctx, sh, command)
		log.Debug(output)
		if err := conn.Write(ctx, websocket.MessageText, []byte(output)); err != nil {
			log.Error("socket write failed", "err", err)
			return
		}
	}
}
