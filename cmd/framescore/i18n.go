// Package main provides localization for the framescore CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Score video-call frame quality over time": "ビデオ通話のフレーム品質を時系列でスコアリング",

		// Capture command
		"Capture frames from a call window and render the score timeline": "通話ウィンドウからフレームをキャプチャし、スコアのタイムラインを描画",

		// Version command
		"Print the version": "バージョンを表示",

		// Flags
		"Path to YAML configuration file":                                   "YAML設定ファイルのパス",
		"Frame source kind (cdp or display)":                                "フレームソースの種類（cdp または display）",
		"Substring matched against tab titles":                              "タブタイトルに対する部分一致文字列",
		"Substring matched against tab URLs":                                "タブURLに対する部分一致文字列",
		"DevTools endpoint of a running browser (e.g. ws://127.0.0.1:9222)": "起動中ブラウザのDevToolsエンドポイント（例: ws://127.0.0.1:9222）",
		"URL to open when launching a fresh browser":                        "ブラウザ起動時に開くURL",
		"Path to Chrome executable":                                         "Chrome実行ファイルのパス",
		"Run a launched browser headless":                                   "起動するブラウザをヘッドレスで実行",
		"Display index for the display source":                              "displayソース用のディスプレイ番号",
		"Capture rate in frames per second":                                 "キャプチャレート（フレーム/秒）",
		"Run length in seconds":                                             "実行時間（秒）",
		"Metric kind to score (repeatable; default: all)":                   "スコアリングするメトリクス（複数指定可、デフォルト: 全て）",
		"Stage channel capacity":                                            "ステージチャネルの容量",
		"Output PNG file path":                                              "出力PNGファイルパス",
		"Chart title":                                                       "チャートのタイトル",
		"Write the run summary markdown to this path":                       "実行サマリーのMarkdownをこのパスに書き出す",
		"Log level (debug, info, warn, error)":                              "ログレベル（debug, info, warn, error）",
		"Suppress all output":                                               "全ての出力を抑制",
		"Save frames and timeline dumps for diagnostics":                    "診断用にフレームとタイムラインのダンプを保存",
		"Directory for debug output":                                        "デバッグ出力用ディレクトリ",
	})
}
