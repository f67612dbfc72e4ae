package redisx

import "fmt"

const ns = "cancha:v1"

func KeyCourts() string {
	return ns + ":courts"
}

// Per-court and facility-wide schedule generations. Cached availability and
// calendar payloads embed the generation, so bumping it orphans every stale
// entry without enumerating keys.
func KeyCourtGen(courtID int64) string {
	return fmt.Sprintf("%s:court:%d:gen", ns, courtID)
}

func KeyCalendarGen() string {
	return ns + ":calendar:gen"
}

func KeyAvailability(courtID, gen, fromUnix, toUnix int64) string {
	return fmt.Sprintf("%s:court:%d:avail:%d:%d:%d", ns, courtID, gen, fromUnix, toUnix)
}

func KeyWeekView(gen, fromUnix, toUnix int64) string {
	return fmt.Sprintf("%s:week:%d:%d:%d", ns, gen, fromUnix, toUnix)
}

func ChannelScheduleChanged() string {
	return ns + ":schedule:changed"
}
