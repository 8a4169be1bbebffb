// file: services/instance_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/swarm"
	"github.com/docker/docker/client"

	"AstraCTF/models"
)

var DockerClient *client.Client

// InitDocker 初始化 Docker 客户端并检查 Swarm 状态
func InitDocker() {
	var err error
	DockerClient, err = client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		log.Fatalf("Failed to connect to Docker daemon: %v", err)
	}

	info, err := DockerClient.Info(context.Background())
	if err != nil {
		log.Fatalf("Failed to get Docker info: %v", err)
	}

	if info.Swarm.LocalNodeState != swarm.LocalNodeStateActive {
		log.Fatalf("Docker is not running in Swarm mode. Please run 'docker swarm init'.")
	}

	log.Println("Docker client initialized and connected to Swarm cluster.")
}

// LaunchEnvironment 为队伍创建一个题目环境 Service，注入该实例的动态 Flag
func LaunchEnvironment(challenge models.Challenge, teamID uint32, flag string) (serviceID, serviceName string, err error) {
	ctx := context.Background()
	// 使用时间戳确保服务名唯一，避免冲突
	serviceName = fmt.Sprintf("astra-%d-%d-%d", teamID, challenge.ID, time.Now().UnixNano())

	// 解析端口配置，形如 "80,3306"
	var portConfigs []swarm.PortConfig
	ports := strings.Split(challenge.DockerPorts, ",")
	for _, p := range ports {
		port, perr := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if perr != nil {
			log.Printf("Warning: Invalid port format '%s' for challenge %d", p, challenge.ID)
			continue
		}
		portConfigs = append(portConfigs, swarm.PortConfig{
			Protocol:    swarm.PortConfigProtocolTCP,
			TargetPort:  uint32(port),
			PublishMode: swarm.PortConfigPublishModeIngress, // 随机宿主端口
		})
	}

	serviceSpec := swarm.ServiceSpec{
		Annotations: swarm.Annotations{
			Name: serviceName,
		},
		TaskTemplate: swarm.TaskSpec{
			ContainerSpec: &swarm.ContainerSpec{
				Image: challenge.DockerImage,
				Env:   []string{"ASTRA_FLAG=" + flag},
			},
			Resources: &swarm.ResourceRequirements{
				Limits: &swarm.Limit{
					MemoryBytes: 256 * 1024 * 1024, // 限制内存 256MB
					NanoCPUs:    500000000,         // 限制 CPU 0.5 Core
				},
			},
		},
		EndpointSpec: &swarm.EndpointSpec{
			Ports: portConfigs,
		},
	}

	resp, err := DockerClient.ServiceCreate(ctx, serviceSpec, types.ServiceCreateOptions{})
	if err != nil {
		return "", "", err
	}
	return resp.ID, serviceName, nil
}

// DestroyEnvironment 销毁一个题目环境 Service
func DestroyEnvironment(serviceID string) error {
	return DockerClient.ServiceRemove(context.Background(), serviceID)
}

// GetEnvironmentInfo 获取 Service 详情（含已分配的宿主端口）
func GetEnvironmentInfo(serviceID string) (swarm.Service, []byte, error) {
	return DockerClient.ServiceInspectWithRaw(context.Background(), serviceID, types.ServiceInspectOptions{})
}

// IsEnvironmentRunning 检查 Service 是否仍在运行
func IsEnvironmentRunning(serviceID string) bool {
	_, _, err := GetEnvironmentInfo(serviceID)
	return err == nil
}
