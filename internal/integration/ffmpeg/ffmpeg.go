package ffmpeg

import "time"

const (
	name = "ffmpeg"
	// ebur128 prints its summary (including "LRA: x LU") on stderr at info level.
	filter = "ebur128"
	// Availability probes are quick; anything slower than this is a broken install.
	probeTimeout = 30 * time.Second

	failureExcerptLines = 3
	parsingExcerptLines = 5

	installHint = "install ffmpeg and make sure it is in PATH " +
		"(macOS: brew install ffmpeg, Debian/Ubuntu: apt install ffmpeg, others: https://ffmpeg.org/download.html)"
)
