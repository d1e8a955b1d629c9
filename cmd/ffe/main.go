package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/liuxx839/ffe/internal/config"
	"github.com/liuxx839/ffe/internal/engine"
	"github.com/liuxx839/ffe/internal/exporter"
	"github.com/liuxx839/ffe/internal/parser"
	"github.com/liuxx839/ffe/internal/server"
	"github.com/liuxx839/ffe/internal/util"
)

var (
	port      = flag.Int("port", 0, "服务端口 (覆盖 config.toml)")
	devMode   = flag.Bool("dev", false, "开发模式")
	dataDir   = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	inputFile = flag.String("file", "", "批处理模式: 对指定 Excel 文件运行全部诊断模块后退出")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  FFE - 医药代表团队诊断工具")
	fmt.Println("==========================================")

	// 批处理模式：不启动服务，直接出诊断工作簿
	if *inputFile != "" {
		if err := runBatch(*inputFile); err != nil {
			log.Fatalf("批处理失败: %v", err)
		}
		return
	}

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	// 确保数据目录存在
	exportDir := ""
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败: %v", err)
	} else {
		fmt.Printf("数据目录: %s\n", dir)
		exportDir = filepath.Join(dir, "exports")
	}

	// 创建服务器
	srv := server.NewServer(cfg, exportDir)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n服务已停止")
}

// runBatch 批处理模式：解析文件 → 运行全部模块 → 写出诊断工作簿
func runBatch(path string) error {
	fmt.Printf("解析数据文件: %s\n", path)
	result, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("列名方案: %s, 共 %d 行\n", result.SchemaName, len(result.Records))

	fmt.Println("运行全部诊断模块...")
	results := engine.RunAll(result.Records, func(name string, index, total int) {
		fmt.Printf("  [%d/%d] %s\n", index+1, total, name)
	})

	for _, r := range results {
		if r.Err != nil {
			log.Printf("模块 %s 失败: %v", r.Name, r.Err)
		}
	}

	file, err := exporter.NewExporter().Export(results)
	if err != nil {
		return err
	}
	defer file.Close()

	outPath := filepath.Join(filepath.Dir(path),
		exporter.DiagnosisFileName(filepath.Base(path), time.Now()))
	if err := file.SaveAs(outPath); err != nil {
		return fmt.Errorf("写入诊断工作簿失败: %w", err)
	}

	fmt.Printf("诊断完成: %s\n", outPath)
	return nil
}
