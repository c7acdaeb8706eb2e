// Package transcript groups speaker-labeled words into turns and renders the
// final transcript text.
//
// Speaker ids are assigned per call in first-seen order, so ids are stable
// within one transcript and meaningless across transcripts. The package also
// owns the "[MM:SS] Speaker N: text" line shape used by the fallback path.
package transcript
