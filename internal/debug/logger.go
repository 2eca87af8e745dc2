package debug

import (
	"log"
	"sync/atomic"
)

var enabled atomic.Bool

// Enable turns the dashboard feed on or off (DEBUG_DASHBOARD).
func Enable(on bool) {
	enabled.Store(on)
	if on {
		log.Println("🐛 Debug Dashboard habilitado")
	}
}

// IsEnabled retorna si el dashboard de debugging está habilitado
func IsEnabled() bool {
	return enabled.Load()
}

// LogDebug envía un log de nivel debug al dashboard
func LogDebug(message string, metadata map[string]any) {
	logAt("debug", message, metadata)
}

// LogInfo envía un log de nivel info al dashboard
func LogInfo(message string, metadata map[string]any) {
	logAt("info", message, metadata)
}

// LogWarn envía un log de nivel warn al dashboard
func LogWarn(message string, metadata map[string]any) {
	logAt("warn", message, metadata)
}

// LogError envía un log de nivel error al dashboard
func LogError(message string, metadata map[string]any) {
	logAt("error", message, metadata)
}

func logAt(level, message string, metadata map[string]any) {
	if !IsEnabled() {
		return
	}
	SendLog("crawler", level, message, metadata)
}

// ReportCrawl envía el avance de un crawl si el dashboard está habilitado
func ReportCrawl(p CrawlProgress) {
	if !IsEnabled() {
		return
	}
	SendCrawlProgress(p)
}

// UpdateApiStatus envía el estado del servicio al dashboard
func UpdateApiStatus(backendStatus, storeStatus, driver string, documents int, version string) {
	if !IsEnabled() {
		return
	}

	var status ApiStatus
	status.Backend.Status = backendStatus
	status.Backend.Version = version
	status.Store.Status = storeStatus
	status.Store.Driver = driver
	status.Store.Documents = documents

	SendApiStatus(status)
}
