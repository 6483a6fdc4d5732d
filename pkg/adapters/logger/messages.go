package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Run level messages (info)
		"Resolving capture target":        "キャプチャ対象を解決中",
		"Capturing at %g fps for %s":      "%g fps で %s 間キャプチャ中",
		"Rendering chart with %d entries": "%d 件のエントリでチャートを描画中",
		"Chart written to %s (%d bytes)":  "チャートを %s に書き込みました (%d バイト)",

		// Capture stage
		"Capture finished: %d frames in %d ticks": "キャプチャ完了: %d ティックで %d フレーム",
		"Capture cancelled after %d ticks":        "%d ティック後にキャプチャが中断されました",
		"Frame acquisition failed on tick %d: %s": "ティック %d のフレーム取得に失敗しました: %s",

		// Scoring stage
		"Scoring finished: %d scored, %d dropped":     "スコアリング完了: %d 件成功, %d 件破棄",
		"Scoring %s failed, dropping frame at %s: %s": "%s のスコアリングに失敗、%s のフレームを破棄します: %s",

		// Aggregation stage
		"Timeline finalized with %d entries": "タイムラインを %d 件で確定しました",

		// Warnings and errors
		"Stage failed, rendering partial timeline of %d entries: %s": "ステージが失敗しました。%d 件の部分タイムラインを描画します: %s",
		"Write summary: %s": "サマリーの書き込み: %s",
		"Run failed: %s":    "実行に失敗しました: %s",
	})
}
