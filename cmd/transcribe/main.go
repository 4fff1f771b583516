package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/internal/controller"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/audio"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

var (
	configFile = flag.String("config", "", "配置文件路径 (.json/.yaml)")
	saveConfig = flag.String("save-config", "", "把最终配置保存到该路径后退出")
	singleFile = flag.String("file", "", "只处理指定文件")
	logLevel   = flag.String("log-level", "INFO", "日志级别 (VERBOSE, INFO, WARN, ERROR)")
	logFile    = flag.String("log-file", "", "日志文件路径")

	inputDir   = flag.String("input", "", "媒体文件目录")
	outputDir  = flag.String("output", "", "输出目录")
	tempDir    = flag.String("temp", "", "临时文件目录")
	workers    = flag.Int("workers", 0, "并发处理的文件数")
	maxRetries = flag.Int("retries", 0, "转录最大尝试次数")

	speakers     = flag.Bool("speakers", false, "启用说话人归属")
	strategy     = flag.String("strategy", "", "归属策略 (sentence, word)")
	gapThreshold = flag.Float64("gap", 0, "合并同一说话人片段的最大间隔（秒）")
	minChars     = flag.Int("min-chars", 0, "句子单元最小字符数")
	rawTurns     = flag.Bool("raw-diarization", true, "在说话人转录末尾附上原始分离结果")

	transcriptDir  = flag.String("transcripts", "", "预先生成的转录和分离文件目录")
	transcriberCmd = flag.String("transcriber-cmd", "", "转录命令模板，如 'whisper {audio} --model {model}'")
	diarizerCmd    = flag.String("diarizer-cmd", "", "说话人分离命令模板，如 'diarize {audio}'")
	model          = flag.String("model", "", "识别模型")
	language       = flag.String("language", "", "识别语言，空为自动")

	enhance        = flag.Bool("enhance", false, "转录前增强音频")
	saveEnhanced   = flag.Bool("save-enhanced", false, "保留增强后的音频")
	fixRepetitions = flag.Bool("fix-repetitions", false, "去除异常重复")
	maskNames      = flag.Bool("mask-names", false, "遮蔽人名")
	namesFile      = flag.String("names-file", "", "自定义名字库")
	excludeFile    = flag.String("exclude-names-file", "", "不遮蔽的名字文件")
	maskingLog     = flag.Bool("masking-log", false, "保存姓名替换记录")
	exportSRT      = flag.Bool("srt", false, "导出SRT字幕")
	exportJSON     = flag.Bool("json", false, "导出JSON结果")

	watch      = flag.Bool("watch", false, "处理完成后继续监控输入目录")
	noProgress = flag.Bool("no-progress", false, "不显示进度条")
)

func main() {
	flag.Parse()

	if err := utils.InitLogger(strings.ToUpper(*logLevel), *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	config, err := loadConfig()
	if err != nil {
		color.Red("配置错误: %v", err)
		os.Exit(2)
	}

	// 配置文件里的日志设置
	if err := utils.InitLogger(config.LogLevel, config.LogFile); err != nil {
		color.Red("初始化日志失败: %v", err)
		os.Exit(1)
	}

	if *saveConfig != "" {
		if err := config.SaveToFile(*saveConfig); err != nil {
			color.Red("保存配置失败: %v", err)
			os.Exit(1)
		}
		color.Green("配置已保存到 %s", *saveConfig)
		return
	}

	if config.ShowProgress {
		utils.EnableTerminalProgress()
	}

	pc, err := controller.NewProcessorController(config)
	if err != nil {
		color.Red("初始化失败: %v", err)
		os.Exit(1)
	}
	pc.HandleSignals()
	pc.PrintBanner("说话人转录工具")

	code := run(pc, config)
	pc.Cleanup()
	os.Exit(code)
}

func run(pc *controller.ProcessorController, config *models.Config) int {
	if *singleFile != "" {
		start := time.Now()
		results, err := pc.BatchProcessor.ProcessFiles(pc.Context(), pc.RunID, []string{*singleFile})
		if err != nil {
			utils.Error("处理被中断: %v", err)
			return 1
		}
		pc.Reporter.PrintBatchSummary(controller.BatchReport(audio.Summarize(results, time.Since(start))))
		if len(results) == 0 || !results[0].Success {
			return 1
		}
		return 0
	}

	if config.WatchMode {
		if err := pc.StartWatchMode(); err != nil {
			utils.Error("监控模式失败: %v", err)
			return 1
		}
		return 0
	}

	_, stats, err := pc.ProcessMedia()
	if err != nil {
		utils.Error("处理失败: %v", err)
		return 1
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// loadConfig 默认配置 <- 配置文件 <- 显式给出的命令行参数
func loadConfig() (*models.Config, error) {
	config := models.NewDefaultConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			return nil, err
		}
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	applyFlags(config, set)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyFlags(config *models.Config, set map[string]bool) {
	strs := map[string]struct {
		dst *string
		val string
	}{
		"input":              {&config.InputFolder, *inputDir},
		"output":             {&config.OutputFolder, *outputDir},
		"temp":               {&config.TempDir, *tempDir},
		"strategy":           {&config.Strategy, *strategy},
		"transcripts":        {&config.TranscriptDir, *transcriptDir},
		"transcriber-cmd":    {&config.TranscriberCmd, *transcriberCmd},
		"diarizer-cmd":       {&config.DiarizerCmd, *diarizerCmd},
		"model":              {&config.Model, *model},
		"language":           {&config.Language, *language},
		"names-file":         {&config.NamesFile, *namesFile},
		"exclude-names-file": {&config.ExcludeNamesFile, *excludeFile},
		"log-level":          {&config.LogLevel, strings.ToUpper(*logLevel)},
		"log-file":           {&config.LogFile, *logFile},
	}
	for name, s := range strs {
		if set[name] {
			*s.dst = s.val
		}
	}

	bools := map[string]struct {
		dst *bool
		val bool
	}{
		"speakers":        {&config.SpeakerAttribution, *speakers},
		"raw-diarization": {&config.IncludeRawDiarization, *rawTurns},
		"enhance":         {&config.EnhanceAudio, *enhance},
		"save-enhanced":   {&config.SaveEnhancedAudio, *saveEnhanced},
		"fix-repetitions": {&config.FixRepetitions, *fixRepetitions},
		"mask-names":      {&config.MaskNames, *maskNames},
		"masking-log":     {&config.SaveMaskingLogs, *maskingLog},
		"srt":             {&config.ExportSRT, *exportSRT},
		"json":            {&config.ExportJSON, *exportJSON},
		"watch":           {&config.WatchMode, *watch},
		"no-progress":     {&config.ShowProgress, !*noProgress},
	}
	for name, b := range bools {
		if set[name] {
			*b.dst = b.val
		}
	}

	if set["workers"] {
		config.MaxWorkers = *workers
	}
	if set["retries"] {
		config.MaxRetries = *maxRetries
	}
	if set["gap"] {
		config.GapThreshold = *gapThreshold
	}
	if set["min-chars"] {
		config.MinUnitChars = *minChars
	}
}
