// Package recipes holds curated pipeline descriptions grouped by task.
// Every recipe resolves against the built-in element catalog and passes link
// validation, so they double as living documentation for the parser.
package recipes

import "sort"

// Recipe is one ready-to-run pipeline description
type Recipe struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Pipeline    string `json:"pipeline"`
	Notes       string `json:"notes,omitempty"`
}

// All returns every recipe in declaration order
func All() []Recipe {
	return catalog
}

// Categories returns the distinct recipe categories, sorted
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range catalog {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	sort.Strings(out)
	return out
}

// ByCategory returns the recipes in one category, in declaration order
func ByCategory(category string) []Recipe {
	var out []Recipe
	for _, r := range catalog {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// Find returns a recipe by name
func Find(name string) (Recipe, bool) {
	for _, r := range catalog {
		if r.Name == name {
			return r, true
		}
	}
	return Recipe{}, false
}

var catalog = []Recipe{
	{
		Name:        "test-video",
		Category:    "testing",
		Description: "Bounded video test stream into a null sink",
		Pipeline:    "videotestsrc num-buffers=100 ! fakesink",
		Notes:       "num-buffers bounds the run so the pipeline completes on its own",
	},
	{
		Name:        "test-audio",
		Category:    "testing",
		Description: "Bounded sine tone into a null sink",
		Pipeline:    "audiotestsrc wave=sine num-buffers=100 ! fakesink",
	},
	{
		Name:        "test-pattern-display",
		Category:    "testing",
		Description: "Bouncing ball test pattern on the default video output",
		Pipeline:    "videotestsrc pattern=ball ! videoconvert ! autovideosink",
	},
	{
		Name:        "play-mp4",
		Category:    "playback",
		Description: "Demux and decode an MP4 file to the default video output",
		Pipeline:    "filesrc location=movie.mp4 ! qtdemux ! h264parse ! avdec_h264 ! videoconvert ! autovideosink",
	},
	{
		Name:        "transcode-mp4",
		Category:    "transcoding",
		Description: "Re-encode an MP4 file at a lower bitrate",
		Pipeline:    "filesrc location=input.mp4 ! qtdemux ! h264parse ! avdec_h264 ! videoconvert ! x264enc bitrate=1024 ! mp4mux ! filesink location=output.mp4",
		Notes:       "bitrate is in kbit/sec",
	},
	{
		Name:        "encode-mp3",
		Category:    "transcoding",
		Description: "Encode a test tone to an MP3 file",
		Pipeline:    "audiotestsrc wave=sine num-buffers=500 ! audioconvert ! lamemp3enc bitrate=192 ! filesink location=tone.mp3",
	},
	{
		Name:        "rtp-send",
		Category:    "streaming",
		Description: "Stream test video as RTP/H.264 over UDP",
		Pipeline:    "videotestsrc ! videoconvert ! x264enc tune=zerolatency ! rtph264pay ! udpsink host=127.0.0.1 port=5000",
		Notes:       "pair with the rtp-receive recipe on the other end",
	},
	{
		Name:        "rtp-receive",
		Category:    "streaming",
		Description: "Receive an RTP/H.264 stream and display it",
		Pipeline:    "udpsrc port=5000 ! rtph264depay ! avdec_h264 ! videoconvert ! autovideosink",
	},
	{
		Name:        "rtmp-publish",
		Category:    "streaming",
		Description: "Publish test video to an RTMP ingest",
		Pipeline:    "videotestsrc ! videoconvert ! x264enc ! h264parse ! flvmux streamable=true ! rtmpsink location=rtmp://localhost/live/stream",
	},
	{
		Name:        "record-camera",
		Category:    "capture",
		Description: "Record a V4L2 camera to an MP4 file",
		Pipeline:    "v4l2src device=/dev/video0 ! videoconvert ! x264enc ! mp4mux faststart=true ! filesink location=capture.mp4",
		Notes:       "faststart moves the index to the front for progressive playback",
	},
	{
		Name:        "snapshot-jpeg",
		Category:    "capture",
		Description: "Grab a single frame as a JPEG file",
		Pipeline:    "videotestsrc num-buffers=1 ! videoconvert ! jpegenc ! filesink location=frame.jpg",
	},
	{
		Name:        "overlay-text",
		Category:    "effects",
		Description: "Burn a text overlay into a test stream",
		Pipeline:    "videotestsrc ! textoverlay text=demo ! videoconvert ! autovideosink",
	},
	{
		Name:        "audio-level",
		Category:    "analysis",
		Description: "Measure RMS and peak levels of an audio stream",
		Pipeline:    "audiotestsrc ! level interval=100000000 ! fakesink",
		Notes:       "interval is in nanoseconds",
	},
}
