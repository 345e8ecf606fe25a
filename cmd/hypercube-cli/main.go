// Package main 提供 hypercube 客户端命令行
//
// 用法:
//
//	hypercube-cli [选项] create    <topic>
//	hypercube-cli [选项] publish   <topic> <message>
//	hypercube-cli [选项] delete    <topic>
//	hypercube-cli [选项] subscribe <topic>
//	hypercube-cli [选项] pull      <topic>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dep2p/go-hypercube/client"
	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
	"github.com/dep2p/go-hypercube/pkg/types"
)

var (
	configFile = flag.String("config", "", "JSON 配置文件路径（成员表与超时）")
	entry      = flag.String("entry", "", "入口节点地址；为空时直连归属节点")
	showOwner  = flag.Bool("owner", false, "只打印主题的归属节点")
)

// errUsage 参数错误
var errUsage = errors.New("usage: hypercube-cli [flags] create|publish|delete|subscribe|pull <topic> [message]")

func main() {
	flag.Parse()
	if err := run(context.Background(), os.Stdout, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, args []string) error {
	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	c, err := client.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if *showOwner {
		if len(args) != 1 {
			return errUsage
		}
		_, err := fmt.Fprintln(out, c.Owner(args[0]))
		return err
	}

	cmd, err := parseCommand(args)
	if err != nil {
		return err
	}

	if *entry != "" {
		return runViaEntry(ctx, out, c, *entry, cmd)
	}
	return runDirect(ctx, out, c, cmd)
}

// parseCommand 把命令行参数转为线协议命令
func parseCommand(args []string) (wire.Command, error) {
	if len(args) < 2 {
		return nil, errUsage
	}
	// 命令行不区分大小写，线协议区分
	verb, err := types.ParseVerb(strings.ToUpper(args[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	message := ""
	switch {
	case verb == types.VerbPublish && len(args) == 3:
		message = args[2]
	case verb != types.VerbPublish && len(args) == 2:
	default:
		return nil, errUsage
	}
	return wire.NewCommand(verb, args[1], message)
}

// runDirect 通过客户端门面直连归属节点
func runDirect(ctx context.Context, out io.Writer, c *client.Client, cmd wire.Command) error {
	if pull, ok := cmd.(wire.Pull); ok {
		msgs, err := c.PullMessages(ctx, pull.Name)
		if err != nil {
			return err
		}
		return printResponse(out, wire.MessagesResponse(msgs))
	}

	var (
		st  types.Status
		err error
	)
	switch v := cmd.(type) {
	case wire.CreateTopic:
		st, err = c.CreateTopic(ctx, v.Name)
	case wire.Publish:
		st, err = c.SendMessage(ctx, v.Name, v.Message)
	case wire.DeleteTopic:
		st, err = c.DeleteTopic(ctx, v.Name)
	case wire.Subscribe:
		st, err = c.Subscribe(ctx, v.Name)
	}
	if err != nil {
		return err
	}
	return printResponse(out, wire.StatusResponse(st))
}

// runViaEntry 把命令发给入口节点，由其转发
func runViaEntry(ctx context.Context, out io.Writer, c *client.Client, entryAddr string, cmd wire.Command) error {
	a, err := c.Space().Parse(entryAddr)
	if err != nil {
		return fmt.Errorf("入口节点地址无效: %w", err)
	}
	resp, err := c.Do(ctx, a, cmd)
	if err != nil {
		return err
	}
	return printResponse(out, resp)
}

func printResponse(out io.Writer, resp wire.Response) error {
	enc := json.NewEncoder(out)
	return enc.Encode(resp)
}
