package martstatus

import (
	"context"
	"encoding/json"
	logger "log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/martcast/martcast/business/data/mart"
	"github.com/martcast/martcast/foundation/database"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// defaultHttpHandler reports service health on the default route, including the database when one is configured
type defaultHttpHandler struct {
	log *logger.Logger
	db  *sqlx.DB
}

// ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := database.StatusCheck(ctx, h.db); err != nil {
			h.log.Printf("database status check failed, error:%s", err)
			w.Header().Add("Application-Status", "DB Not Ready")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Add("Application-Status", "OK")
}

// martStatusHandler holds data needed to respond and log mart requests
type martStatusHandler struct {
	log            *logger.Logger
	martCollection *martCollection
}

// martStatusHandler factory
func makeMartStatusHandler(log *logger.Logger, martCollection *martCollection) *martStatusHandler {
	return &martStatusHandler{
		log:            log,
		martCollection: martCollection,
	}
}

// serveMarts responds with all marts, restricted to the mart types listed in the "type" parameter
func (h *martStatusHandler) serveMarts(w http.ResponseWriter, r *http.Request) {
	var martTypes []string
	for _, t := range strings.Split(r.FormValue("type"), ",") {
		if t = strings.TrimSpace(t); len(t) > 0 {
			martTypes = append(martTypes, t)
		}
	}
	h.serve(w, r, h.martCollection.martList(martTypes...))
}

// serveMart responds with the mart named in the path
func (h *martStatusHandler) serveMart(w http.ResponseWriter, r *http.Request) {
	martName := mux.Vars(r)["name"]
	m, present := h.martCollection.getMart(martName)
	if !present {
		http.Error(w, "mart not found", http.StatusNotFound)
		return
	}
	h.serve(w, r, []*martWrapper{m})
}

// serve writes marts as json, or as protocol buffer when "proto" is true, or protocol buffer text when "text" is true
func (h *martStatusHandler) serve(w http.ResponseWriter, r *http.Request, marts []*martWrapper) {
	asText := strings.ToLower(r.FormValue("text")) == "true"
	asProto := strings.ToLower(r.FormValue("proto")) == "true"
	switch {
	case asText:
		h.writeProtocolBufferAsText(buildListValue(marts), w)
	case asProto:
		h.writeProtocolBuffer(buildListValue(marts), w)
	default:
		h.serveJSON(marts, w)
	}
}

// writeProtocolBuffer marshal structpb.ListValue as protocol buffer to http.ResponseWriter
func (h *martStatusHandler) writeProtocolBuffer(list *structpb.ListValue, w http.ResponseWriter) {
	bytes, err := proto.Marshal(list)
	if err != nil {
		h.log.Printf("Failed to marshal structpb.ListValue to bytes, error:%s", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	bytesWritten, err := w.Write(bytes)
	if err != nil {
		h.log.Printf("Error writing bytes to http.ResponseWriter, error:%s", err)
		return
	}
	h.log.Printf("wrote %d bytes for protobuf", bytesWritten)
}

// writeProtocolBufferAsText write plain text formatting of structpb.ListValue to http.ResponseWriter
func (h *martStatusHandler) writeProtocolBufferAsText(list *structpb.ListValue, w http.ResponseWriter) {
	stringResponse := prototext.MarshalOptions{Multiline: true}.Format(list)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	bytesWritten, err := w.Write([]byte(stringResponse))
	if err != nil {
		h.log.Printf("Error writing bytes to http.ResponseWriter, error:%s", err)
		return
	}
	h.log.Printf("wrote %d bytes for protobuf in text format", bytesWritten)
}

// serveJSON sends marts as json, wrapped by JsonMartResponseWrapper to http.ResponseWriter
func (h *martStatusHandler) serveJSON(marts []*martWrapper, w http.ResponseWriter) {
	jsonWrapper := makeJsonMartResponseWrapper(time.Now().Unix(), marts)
	jsonData, err := json.Marshal(jsonWrapper)
	if err != nil {
		h.log.Printf("Error marshaling marts to json: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	byteCount, err := w.Write(jsonData)
	if err != nil {
		h.log.Printf("Error writing json response: %s", err)
		return
	}
	h.log.Printf("wrote %d bytes in json response.", byteCount)
}

// buildListValue collects the protobuf struct of each martWrapper
func buildListValue(marts []*martWrapper) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(marts))
	for _, m := range marts {
		values = append(values, structpb.NewStructValue(m.martProtoc))
	}
	return &structpb.ListValue{Values: values}
}

// JsonMartResponseWrapper provides json response wrapper around mart.Marts
type JsonMartResponseWrapper struct {
	Timestamp int64        `json:"timestamp"`
	Marts     []*mart.Mart `json:"marts"`
}

// makeJsonMartResponseWrapper creates JsonMartResponseWrapper with marts from martWrapper
func makeJsonMartResponseWrapper(now int64, wrappers []*martWrapper) *JsonMartResponseWrapper {
	marts := make([]*mart.Mart, 0, len(wrappers))
	for _, w := range wrappers {
		marts = append(marts, w.mart)
	}
	return &JsonMartResponseWrapper{
		Timestamp: now,
		Marts:     marts,
	}
}

// createServer creates configured http.Server for responding to mart requests
func createServer(log *logger.Logger,
	db *sqlx.DB,
	martCollection *martCollection,
	httpPort int) *http.Server {

	martService := makeMartStatusHandler(log, martCollection)

	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{log: log, db: db})
	r.HandleFunc("/marts", martService.serveMarts).Methods(http.MethodGet)
	r.HandleFunc("/marts/{name}", martService.serveMart).Methods(http.MethodGet)
	srv := &http.Server{
		Addr:         strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	return srv
}

// runWebService starts up mart web service, and terminates on shutdown signal
func runWebService(log *logger.Logger,
	wg *sync.WaitGroup,
	db *sqlx.DB,
	martCollection *martCollection,
	httpPort int,
	shutdownSignal chan bool,
) {
	defer wg.Done()
	srv := createServer(log, db, martCollection, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()

	<-shutdownSignal
	log.Printf("ending webservice on shutdown signal")
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
