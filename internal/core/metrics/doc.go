// Package metrics 提供节点级 Prometheus 指标
//
// 每个节点一组收集器，通过常量标签 node 区分，同一进程内的多个节点
// （hypercube -all）可以注册到同一个 Registry。
//
//	hypercube_requests_total{node,verb,route,status}
//	hypercube_request_duration_seconds{node,verb,route}
//	hypercube_forward_attempts_total{node,result}
//	hypercube_topics{node}
//	hypercube_malformed_requests_total{node}
package metrics
