// Package types 定义 go-hypercube 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - address.go - NodeAddress 超立方体节点地址、Space 地址空间
//   - enums.go   - Verb 主题操作动词、Status 响应状态
//   - errors.go  - 公共错误定义
//
// # 地址表示
//
// NodeAddress 是定宽比特串，宽度 = ceil(log2(N))。默认 N = 8，
// 即 3 比特地址 "000" .. "111"。地址空间在部署生命周期内保持不变。
package types
