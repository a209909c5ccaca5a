package server

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/qlearning-rl/policies"
)

// SnapshotServer serves the learned values published by the experiments
// Only copies are kept, live agents are never read
type SnapshotServer struct {
	Addr   string
	ctx    context.Context
	server *http.Server

	lock      *sync.Mutex
	snapshots map[string]map[string]float64
	published map[string]time.Time
}

func NewSnapshotServer(ctx context.Context, addr string) *SnapshotServer {
	s := &SnapshotServer{
		Addr:      addr,
		ctx:       ctx,
		lock:      new(sync.Mutex),
		snapshots: make(map[string]map[string]float64),
		published: make(map[string]time.Time),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/snapshots", s.handleList)
	r.GET("/snapshots/:name", s.handleSnapshot)
	r.GET("/snapshots/:name/top", s.handleTop)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func (s *SnapshotServer) Handler() http.Handler {
	return s.server.Handler
}

// Publish replaces the snapshot stored under name with a copy of values
func (s *SnapshotServer) Publish(name string, values map[string]float64) {
	c := make(map[string]float64, len(values))
	for k, v := range values {
		c[k] = v
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.snapshots[name] = c
	s.published[name] = time.Now()
}

func (s *SnapshotServer) get(name string) (map[string]float64, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	values, ok := s.snapshots[name]
	return values, ok
}

type snapshotInfo struct {
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	Published time.Time `json:"published"`
}

func (s *SnapshotServer) handleList(c *gin.Context) {
	s.lock.Lock()
	out := make([]snapshotInfo, 0, len(s.snapshots))
	for name, values := range s.snapshots {
		out = append(out, snapshotInfo{Name: name, Size: len(values), Published: s.published[name]})
	}
	s.lock.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	c.JSON(http.StatusOK, out)
}

func (s *SnapshotServer) handleSnapshot(c *gin.Context) {
	values, ok := s.get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}
	c.JSON(http.StatusOK, values)
}

func (s *SnapshotServer) handleTop(c *gin.Context) {
	values, ok := s.get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid n"})
		return
	}
	c.JSON(http.StatusOK, policies.TopWeights(values, n))
}

// Start listens in the background until the context is cancelled
func (s *SnapshotServer) Start() {
	go func() {
		s.server.ListenAndServe()
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
}
