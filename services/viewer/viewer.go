package viewer

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sjsage522/slotwatcher/helpers"
	"sjsage522/slotwatcher/logger"
)

const (
	pageLines   = 300
	tailLines   = 500
	pageRefresh = 10

	noLogsPage  = "(no logs yet)"
	noLogsFound = "No logs found."
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html><head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body{font-family:system-ui,Arial,sans-serif;max-width:900px;margin:24px auto;padding:0 12px;background:#fafafa;color:#222}
h1{font-size:20px;margin:0 0 10px}
small{color:#666}
pre{background:#111;color:#eee;padding:12px;border-radius:6px;white-space:pre-wrap;word-wrap:break-word}
a.button{display:inline-block;margin:8px 8px 0 0;padding:6px 10px;border:1px solid #ccc;border-radius:4px;text-decoration:none;color:#222;background:#fff}
</style>
<meta http-equiv="refresh" content="{{.Refresh}}">
</head><body>
<h1>{{.Title}}</h1>
<small>Server time: {{.Now}}</small><br>
<a class="button" href="/">Last lines</a>
<a class="button" href="/download">Download</a>
<a class="button" href="/stream">Live (auto-scroll)</a>
<pre>{{.Content}}</pre>
</body></html>`))

const streamPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Live</title>
<style>body{margin:0} pre{margin:0;padding:12px;background:#111;color:#eee;height:100vh;overflow:auto;}</style>
</head>
<body>
<pre id="log"></pre>
<script>
async function fetchLog(){
  const r = await fetch('/tail');
  const t = await r.text();
  const pre = document.getElementById('log');
  const atBottom = (pre.scrollTop + pre.clientHeight) >= (pre.scrollHeight - 5);
  pre.textContent = t;
  if(atBottom) pre.scrollTop = pre.scrollHeight;
}
setInterval(fetchLog, 2000);
fetchLog();
</script>
</body></html>`

type pageData struct {
	Title   string
	Now     string
	Refresh int
	Content string
}

// Server is the read-only web view over the run log
type Server struct {
	logPath string
	title   string
	now     func() time.Time
	router  chi.Router
}

// NewServer creates a viewer for the log file at logPath
func NewServer(logPath, title string) *Server {
	s := &Server{
		logPath: logPath,
		title:   title,
		now:     time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/download", s.handleDownload)
	r.Get("/stream", s.handleStream)
	r.Get("/tail", s.handleTail)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// lines returns the last n lines, a read error as a single line, or nil
// when there is no log file yet.
func (s *Server) lines(n int) []string {
	lines, err := TailLines(s.logPath, n)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		logger.ForViewer().Warn().Err(err).Str("path", s.logPath).Msg("Failed to read log")
		return []string{readError(err)}
	}
	return lines
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	content := noLogsPage
	if lines := s.lines(pageLines); len(lines) > 0 {
		content = strings.Join(lines, "\n")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		Title:   s.title,
		Now:     s.now().Format(helpers.TimestampLayout),
		Refresh: pageRefresh,
		Content: content,
	})
	if err != nil {
		logger.ForViewer().Error().Err(err).Msg("Failed to render page")
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(s.logPath)
	if err != nil {
		writeText(w, noLogsFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", s.logPath)
	}
	if err != nil {
		logger.ForViewer().Warn().Err(err).Str("path", s.logPath).Msg("Failed to read log")
		writeText(w, readError(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(s.logPath)))
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(streamPage))
}

func (s *Server) handleTail(w http.ResponseWriter, r *http.Request) {
	lines := s.lines(tailLines)
	if lines == nil {
		writeText(w, noLogsFound)
		return
	}
	writeText(w, strings.Join(lines, "\n"))
}

func readError(err error) string {
	return fmt.Sprintf("[viewer] Read error: %v", err)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
