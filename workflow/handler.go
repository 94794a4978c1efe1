package workflow

import (
	"encoding/json"
	"net/http"

	"github.com/airbusgeo/emit-ingester/common"
	"github.com/airbusgeo/emit-ingester/service/log"
	"github.com/gorilla/mux"
)

func (wf *Workflow) NewHandler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/status", wf.StatusHandler).Methods("GET")
	r.HandleFunc("/regions/{state}", wf.ListRegionsHandler).Methods("GET")
	return r
}

// StatusHandler returns the report of the run
func (wf *Workflow) StatusHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(wf.report.Snapshot()); err != nil {
		log.Logger(req.Context()).Sugar().Warnf("StatusHandler: %v", err)
	}
}

// ListRegionsHandler lists the regions in the given state
func (wf *Workflow) ListRegionsHandler(w http.ResponseWriter, req *http.Request) {
	state, err := common.RegionStateString(mux.Vars(req)["state"])
	if err != nil {
		w.WriteHeader(400)
		w.Write([]byte(err.Error()))
		return
	}
	regions := []string{}
	for id, s := range wf.report.Snapshot().Regions {
		if s == state {
			regions = append(regions, id)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(regions)
}
