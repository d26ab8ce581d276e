package bot

// All user-facing bot messages in one place.

// ── /start & /help ──────────────────────────────────────────────────

const msgStart = `<b>Flood Watch</b>

I deliver emergency broadcasts from the flood control room to district channels.

/districts - Districts covered
/localities - Localities of a district
/broadcasts - Recent broadcasts
/help - How it works`

const msgHelp = `<b>How it works:</b>

1. Operators send a broadcast from the dashboard
2. A broadcast targets one district or all districts
3. I post it to every channel subscribed to that district
4. Channels subscribed to "*" receive every broadcast

<b>Commands:</b>
/districts - list districts
/localities &lt;district&gt; - list localities of a district
/broadcasts - last 10 broadcasts`

// ── Generic / errors ────────────────────────────────────────────────

const (
	msgError          = "Something went wrong. Please try again later."
	msgLocalitiesHelp = "Usage: /localities &lt;district&gt;"
	msgUnknownRegion  = "No localities known for <b>%s</b>."
	msgNoBroadcasts   = "No broadcasts yet."
)

// ── Lists ───────────────────────────────────────────────────────────

const (
	msgDistrictsHeader  = "<b>Districts (%d):</b>\n"
	msgLocalitiesHeader = "<b>Localities of %s:</b>\n"
	msgBroadcastLine    = "%s · <b>%s</b>: %s\n"
)

// ── Broadcast delivery ──────────────────────────────────────────────

const (
	msgBroadcast         = "🚨 <b>Emergency broadcast</b> · %s\n\n%s\n\n<i>%s</i>"
	msgAllDistrictsLabel = "All districts"
)
