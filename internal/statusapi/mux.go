package statusapi

import (
	"encoding/json"
	"net/http"

	"github.com/barrelcam/lightgun-driver/internal/protocol"
	"github.com/barrelcam/lightgun-driver/internal/vision"
)

func (s *Server) buildMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.requireToken(s.handleStatus))
	mux.HandleFunc("/debug", s.requireToken(s.handleDebug))
	mux.HandleFunc("/stream", s.requireToken(s.handleStream))
	return mux
}

// statusResponse is the GET /status body: the device session state
// plus the frame processor's ROI/handedness tracking state.
type statusResponse struct {
	Device *deviceInfoView `json:"device"`
	Frame  frameView       `json:"frame"`
}

type frameView struct {
	ROIValid     bool             `json:"roi_valid"`
	ROIX         int              `json:"roi_x"`
	ROIY         int              `json:"roi_y"`
	ROIW         int              `json:"roi_w"`
	ROIH         int              `json:"roi_h"`
	Hand         string           `json:"hand"`
	LastAccepted *vision.AimPoint `json:"last_accepted,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	snap := s.frames.Snapshot()
	resp := statusResponse{
		Device: s.deviceInfoView(),
		Frame: frameView{
			ROIValid:     snap.ROIValid,
			ROIX:         snap.ROI.X,
			ROIY:         snap.ROI.Y,
			ROIW:         snap.ROI.W,
			ROIH:         snap.ROI.H,
			Hand:         snap.Hand.String(),
			LastAccepted: snap.LastAccepted,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// debugRequest is the POST /debug body: a raw opcode and up to 4
// payload bytes, issued directly against the connected device (spec.md
// §4.7's Debug opcode) without any of the higher-level request/update
// helpers interpreting the response.
type debugRequest struct {
	Opcode byte `json:"opcode"`
	P0     byte `json:"p0"`
	P1     byte `json:"p1"`
	P2     byte `json:"p2"`
	P3     byte `json:"p3"`
}

type debugResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req debugRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.device.Debug(protocol.Opcode(req.Opcode), req.P0, req.P1, req.P2, req.P3)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(debugResponse{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(debugResponse{Result: result})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events := s.hub.register(conn)
	defer s.hub.unregister(conn)

	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}
